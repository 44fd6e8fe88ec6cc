// Package library copies a user's saved tracks into a playlist.
//
// The package talks to the streaming service only through the API interface, so the
// paging, batching and duplicate detection here are independent of any HTTP client.
package library

import (
	"context"
	"errors"
)

const (
	// LikedPageSize is the page size used when listing saved tracks (max allowed by Spotify).
	LikedPageSize = 50

	// PlaylistPageSize is the page size used when listing playlist items.
	PlaylistPageSize = 100

	// MaxBatchSize is the maximum number of track ids accepted by a single append call.
	MaxBatchSize = 100
)

// ErrInvalidPlaylistURL is returned when a playlist id cannot be extracted from a URL.
var ErrInvalidPlaylistURL = errors.New("invalid playlist URL")

// Track is a saved track flattened to its display fields.
// An empty ID means the service returned the entry without an id.
type Track struct {
	ID      string
	Name    string
	Artists string // Comma-separated artist names
}

// Playlist identifies a playlist owned by the streaming service.
type Playlist struct {
	ID  string
	URL string
}

// User is the authenticated account.
type User struct {
	ID          string
	DisplayName string
}

// API is the subset of the streaming service used by this package.
type API interface {
	// SavedTracks returns one page of the current user's saved tracks, newest first.
	SavedTracks(ctx context.Context, limit, offset int) ([]Track, error)

	// CurrentUser returns the authenticated user.
	CurrentUser(ctx context.Context) (User, error)

	// CreatePlaylist creates a playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (Playlist, error)

	// PlaylistTrackIDs returns the track ids of one page of a playlist's items.
	// Items without an id are returned as empty strings.
	PlaylistTrackIDs(ctx context.Context, playlistID string, limit, offset int) ([]string, error)

	// AddTracks appends at most MaxBatchSize track ids to a playlist.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

// Observer receives progress notifications from long-running operations.
type Observer interface {
	// TracksFetched is called after each saved-tracks page with the running total.
	TracksFetched(count int)

	// TracksAdded is called after each appended batch.
	TracksAdded(added, total int)
}

// NopObserver discards all progress notifications.
type NopObserver struct{}

// TracksFetched implements Observer.
func (NopObserver) TracksFetched(int) {}

// TracksAdded implements Observer.
func (NopObserver) TracksAdded(int, int) {}

// TrackIDs returns the ids of tracks in order.
func TrackIDs(tracks []Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
