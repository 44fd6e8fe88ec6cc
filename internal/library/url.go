package library

import "strings"

// ParsePlaylistID extracts the playlist id from a share URL such as
// https://open.spotify.com/playlist/<id>?si=...
func ParsePlaylistID(url string) (string, error) {
	_, rest, ok := strings.Cut(url, "/playlist/")
	if !ok {
		return "", ErrInvalidPlaylistURL
	}

	id, _, _ := strings.Cut(rest, "?")
	if id == "" {
		return "", ErrInvalidPlaylistURL
	}

	return id, nil
}
