package library

import (
	"context"
	"fmt"
	"slices"
)

// FetchLikedSongs retrieves every saved track of the current user.
// Pages are requested until one comes back empty. Entries without an id are dropped.
// The result is ordered oldest-saved first.
func FetchLikedSongs(ctx context.Context, api API, obs Observer) ([]Track, error) {
	obs = observerOrNop(obs)

	var tracks []Track
	for offset := 0; ; offset += LikedPageSize {
		page, err := api.SavedTracks(ctx, LikedPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetching liked songs (offset %d): %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		for _, t := range page {
			if t.ID == "" {
				continue
			}
			tracks = append(tracks, t)
		}

		obs.TracksFetched(len(tracks))
	}

	slices.Reverse(tracks)
	return tracks, nil
}
