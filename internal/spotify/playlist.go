package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/liked-to-playlist/internal/library"
)

// playlistItemFields limits playlist item responses to the track id.
const playlistItemFields = "items.track.id"

// CreatePlaylist creates a new playlist owned by userID.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (library.Playlist, error) {
	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return library.Playlist{}, fmt.Errorf("creating playlist: %w", err)
	}

	c.logger.Debug("created playlist", "id", playlist.ID, "name", name)
	return library.Playlist{
		ID:  playlist.ID.String(),
		URL: playlist.ExternalURLs["spotify"],
	}, nil
}

// PlaylistTrackIDs returns the track ids on one page of a playlist.
// Items without a track (removed tracks, null entries) yield an empty id.
func (c *Client) PlaylistTrackIDs(ctx context.Context, playlistID string, limit, offset int) ([]string, error) {
	c.logger.Debug("fetching playlist items", "playlist", playlistID, "limit", limit, "offset", offset)

	// GetPlaylistTracks decodes a null track into a zero FullTrack, which the
	// typed item decoder of GetPlaylistItems rejects.
	page, err := c.api.GetPlaylistTracks(ctx, spotify.ID(playlistID),
		spotify.Limit(limit),
		spotify.Offset(offset),
		spotify.Fields(playlistItemFields),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching playlist items: %w", err)
	}

	return playlistTrackIDs(page.Tracks), nil
}

func playlistTrackIDs(items []spotify.PlaylistTrack) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.Track.ID.String()
	}
	return ids
}

// AddTracks appends one batch of tracks to a playlist.
// Spotify allows max library.MaxBatchSize tracks per request.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > library.MaxBatchSize {
		return fmt.Errorf("adding tracks: batch of %d exceeds limit of %d", len(trackIDs), library.MaxBatchSize)
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	snapshot, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...)
	if err != nil {
		return fmt.Errorf("adding tracks: %w", err)
	}

	c.logger.Debug("added tracks", "playlist", playlistID, "count", len(ids), "snapshot", snapshot)
	return nil
}
