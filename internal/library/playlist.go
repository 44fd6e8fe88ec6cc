package library

import (
	"context"
	"fmt"
)

// CreatePlaylist creates a private playlist for the current user.
func CreatePlaylist(ctx context.Context, api API, name, description string) (Playlist, error) {
	user, err := api.CurrentUser(ctx)
	if err != nil {
		return Playlist{}, fmt.Errorf("getting current user: %w", err)
	}

	playlist, err := api.CreatePlaylist(ctx, user.ID, name, description, false)
	if err != nil {
		return Playlist{}, fmt.Errorf("creating playlist: %w", err)
	}

	return playlist, nil
}

// ExistingTrackIDs returns the set of track ids currently in a playlist.
func ExistingTrackIDs(ctx context.Context, api API, playlistID string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	for offset := 0; ; offset += PlaylistPageSize {
		page, err := api.PlaylistTrackIDs(ctx, playlistID, PlaylistPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetching playlist items (offset %d): %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		for _, id := range page {
			if id == "" {
				continue
			}
			ids[id] = struct{}{}
		}
	}

	return ids, nil
}

// AddTracks appends track ids to a playlist in batches of MaxBatchSize, preserving order.
// Batches already submitted when a later batch fails are not rolled back.
func AddTracks(ctx context.Context, api API, playlistID string, trackIDs []string, obs Observer) error {
	obs = observerOrNop(obs)
	total := len(trackIDs)

	for i := 0; i < total; i += MaxBatchSize {
		end := min(i+MaxBatchSize, total)

		if err := api.AddTracks(ctx, playlistID, trackIDs[i:end]); err != nil {
			return fmt.Errorf("adding tracks (batch %d-%d of %d): %w", i+1, end, total, err)
		}

		obs.TracksAdded(end, total)
	}

	return nil
}

// NewTracks returns the liked tracks whose ids are not in existing, in their original order.
func NewTracks(liked []Track, existing map[string]struct{}) []Track {
	var tracks []Track
	for _, t := range liked {
		if _, ok := existing[t.ID]; ok {
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks
}
