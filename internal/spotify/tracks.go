package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/liked-to-playlist/internal/library"
)

// SavedTracks returns one page of the user's liked songs.
// Entries the API returns without a track id are kept with an empty ID.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) ([]library.Track, error) {
	c.logger.Debug("fetching saved tracks", "limit", limit, "offset", offset)

	page, err := c.api.CurrentUsersTracks(ctx, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, fmt.Errorf("fetching saved tracks: %w", err)
	}

	tracks := make([]library.Track, len(page.Tracks))
	for i, saved := range page.Tracks {
		tracks[i] = convertTrack(saved)
	}
	return tracks, nil
}

// convertTrack flattens a Spotify SavedTrack to its display fields.
func convertTrack(saved spotify.SavedTrack) library.Track {
	artists := make([]string, len(saved.Artists))
	for i, a := range saved.Artists {
		artists[i] = a.Name
	}

	return library.Track{
		ID:      saved.ID.String(),
		Name:    saved.Name,
		Artists: strings.Join(artists, ", "),
	}
}
