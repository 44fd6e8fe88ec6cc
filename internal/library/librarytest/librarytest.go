// Package librarytest provides an in-memory library.API for tests.
package librarytest

import (
	"context"
	"fmt"
	"slices"

	"github.com/justestif/liked-to-playlist/internal/library"
)

// CreateCall records a CreatePlaylist invocation.
type CreateCall struct {
	UserID      string
	Name        string
	Description string
	Public      bool
}

// AddCall records an AddTracks invocation.
type AddCall struct {
	PlaylistID string
	TrackIDs   []string
}

// API is a fake library.API backed by fixed pages.
//
// SavedPages[i] is returned for offset i*limit; offsets past the last page return an
// empty page. PlaylistPages works the same way per playlist id.
type API struct {
	User          library.User
	SavedPages    [][]library.Track
	PlaylistPages map[string][][]string

	// Errors returned by the corresponding methods when set.
	SavedTracksErr    error
	CurrentUserErr    error
	CreatePlaylistErr error
	PlaylistItemsErr  error
	AddTracksErr      error

	// FailAddOn makes the n-th AddTracks call (1-based) return AddTracksErr.
	// Zero means every call returns AddTracksErr when it is set.
	FailAddOn int

	// Calls lists method names in call order.
	Calls   []string
	Created []CreateCall
	Added   []AddCall

	nextPlaylist int
}

var _ library.API = (*API)(nil)

// SavedTracks implements library.API.
func (a *API) SavedTracks(_ context.Context, limit, offset int) ([]library.Track, error) {
	a.Calls = append(a.Calls, "SavedTracks")
	if a.SavedTracksErr != nil {
		return nil, a.SavedTracksErr
	}
	return pageAt(a.SavedPages, limit, offset), nil
}

// CurrentUser implements library.API.
func (a *API) CurrentUser(context.Context) (library.User, error) {
	a.Calls = append(a.Calls, "CurrentUser")
	if a.CurrentUserErr != nil {
		return library.User{}, a.CurrentUserErr
	}
	return a.User, nil
}

// CreatePlaylist implements library.API.
func (a *API) CreatePlaylist(_ context.Context, userID, name, description string, public bool) (library.Playlist, error) {
	a.Calls = append(a.Calls, "CreatePlaylist")
	if a.CreatePlaylistErr != nil {
		return library.Playlist{}, a.CreatePlaylistErr
	}

	a.Created = append(a.Created, CreateCall{
		UserID:      userID,
		Name:        name,
		Description: description,
		Public:      public,
	})

	a.nextPlaylist++
	id := fmt.Sprintf("playlist%d", a.nextPlaylist)
	return library.Playlist{
		ID:  id,
		URL: "https://open.spotify.com/playlist/" + id,
	}, nil
}

// PlaylistTrackIDs implements library.API.
func (a *API) PlaylistTrackIDs(_ context.Context, playlistID string, limit, offset int) ([]string, error) {
	a.Calls = append(a.Calls, "PlaylistTrackIDs")
	if a.PlaylistItemsErr != nil {
		return nil, a.PlaylistItemsErr
	}
	return pageAt(a.PlaylistPages[playlistID], limit, offset), nil
}

// AddTracks implements library.API.
func (a *API) AddTracks(_ context.Context, playlistID string, trackIDs []string) error {
	a.Calls = append(a.Calls, "AddTracks")
	addCalls := a.count("AddTracks")
	if a.AddTracksErr != nil && (a.FailAddOn == 0 || a.FailAddOn == addCalls) {
		return a.AddTracksErr
	}

	a.Added = append(a.Added, AddCall{
		PlaylistID: playlistID,
		TrackIDs:   slices.Clone(trackIDs),
	})
	return nil
}

// AddedIDs returns every id successfully appended, in call order.
func (a *API) AddedIDs() []string {
	var ids []string
	for _, c := range a.Added {
		ids = append(ids, c.TrackIDs...)
	}
	return ids
}

// Called reports whether the named method was invoked.
func (a *API) Called(method string) bool {
	return a.count(method) > 0
}

func (a *API) count(method string) int {
	n := 0
	for _, c := range a.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func pageAt[T any](pages [][]T, limit, offset int) []T {
	if limit <= 0 {
		return nil
	}
	idx := offset / limit
	if idx >= len(pages) {
		return nil
	}
	return pages[idx]
}

// Tracks builds tracks with the given ids, named after their id.
func Tracks(ids ...string) []library.Track {
	tracks := make([]library.Track, len(ids))
	for i, id := range ids {
		tracks[i] = library.Track{ID: id, Name: "Song " + id, Artists: "Artist " + id}
	}
	return tracks
}

// IDs returns n sequential ids with the given prefix.
func IDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return ids
}
