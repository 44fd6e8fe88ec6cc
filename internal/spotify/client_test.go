package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/liked-to-playlist/internal/library"
)

func TestConvertTrack(t *testing.T) {
	tests := []struct {
		name            string
		saved           spotify.SavedTrack
		expectedID      string
		expectedName    string
		expectedArtists string
	}{
		{
			name: "single artist",
			saved: spotify.SavedTrack{
				AddedAt: "2024-01-15T10:30:00Z",
				FullTrack: spotify.FullTrack{
					SimpleTrack: spotify.SimpleTrack{
						ID:   "track123",
						Name: "Test Song",
						Artists: []spotify.SimpleArtist{
							{Name: "Artist One"},
						},
					},
				},
			},
			expectedID:      "track123",
			expectedName:    "Test Song",
			expectedArtists: "Artist One",
		},
		{
			name: "multiple artists",
			saved: spotify.SavedTrack{
				FullTrack: spotify.FullTrack{
					SimpleTrack: spotify.SimpleTrack{
						ID:   "track456",
						Name: "Collab Track",
						Artists: []spotify.SimpleArtist{
							{Name: "Artist A"},
							{Name: "Artist B"},
							{Name: "Artist C"},
						},
					},
				},
			},
			expectedID:      "track456",
			expectedName:    "Collab Track",
			expectedArtists: "Artist A, Artist B, Artist C",
		},
		{
			name: "no artists",
			saved: spotify.SavedTrack{
				FullTrack: spotify.FullTrack{
					SimpleTrack: spotify.SimpleTrack{
						ID:      "track000",
						Name:    "Unknown Track",
						Artists: []spotify.SimpleArtist{},
					},
				},
			},
			expectedID:      "track000",
			expectedName:    "Unknown Track",
			expectedArtists: "",
		},
		{
			name:            "null track",
			saved:           spotify.SavedTrack{AddedAt: "2024-03-01T00:00:00Z"},
			expectedID:      "",
			expectedName:    "",
			expectedArtists: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertTrack(tt.saved)

			if got.ID != tt.expectedID {
				t.Errorf("ID = %q, want %q", got.ID, tt.expectedID)
			}
			if got.Name != tt.expectedName {
				t.Errorf("Name = %q, want %q", got.Name, tt.expectedName)
			}
			if got.Artists != tt.expectedArtists {
				t.Errorf("Artists = %q, want %q", got.Artists, tt.expectedArtists)
			}
		})
	}
}

func TestPlaylistTrackIDs(t *testing.T) {
	items := []spotify.PlaylistTrack{
		{Track: spotify.FullTrack{SimpleTrack: spotify.SimpleTrack{ID: "a"}}},
		{},
		{Track: spotify.FullTrack{SimpleTrack: spotify.SimpleTrack{ID: "b"}}},
	}

	got := playlistTrackIDs(items)
	want := []string{"a", "", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("playlistTrackIDs() = %v, want %v", got, want)
	}
}

// newTestClient serves the given handler as the Spotify API.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/"))
	return New(api)
}

func TestSavedTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/tracks" {
			t.Errorf("path = %q, want /me/tracks", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		if got := r.URL.Query().Get("offset"); got != "100" {
			t.Errorf("offset = %q, want 100", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"added_at": "2024-01-15T10:30:00Z", "track": {"id": "t1", "name": "Song", "artists": [{"name": "A"}, {"name": "B"}]}},
				{"added_at": "2024-01-14T10:30:00Z", "track": null}
			],
			"limit": 50, "offset": 100, "total": 102
		}`))
	})

	got, err := client.SavedTracks(context.Background(), 50, 100)
	if err != nil {
		t.Fatalf("SavedTracks() error = %v", err)
	}

	want := []library.Track{
		{ID: "t1", Name: "Song", Artists: "A, B"},
		{},
	}
	if !slices.Equal(got, want) {
		t.Errorf("SavedTracks() = %+v, want %+v", got, want)
	}
}

func TestSavedTracksError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"status": 401, "message": "The access token expired"}}`))
	})

	_, err := client.SavedTracks(context.Background(), 50, 0)
	if err == nil {
		t.Fatal("SavedTracks() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "The access token expired") {
		t.Errorf("error %q does not carry the API message", err)
	}
}

func TestPlaylistTrackIDsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/p1/tracks" {
			t.Errorf("path = %q, want /playlists/p1/tracks", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != playlistItemFields {
			t.Errorf("fields = %q, want %q", got, playlistItemFields)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [{"track": {"id": "a"}}, {"track": null}, {"track": {"id": "b"}}]}`))
	})

	got, err := client.PlaylistTrackIDs(context.Background(), "p1", 100, 0)
	if err != nil {
		t.Fatalf("PlaylistTrackIDs() error = %v", err)
	}

	want := []string{"a", "", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("PlaylistTrackIDs() = %v, want %v", got, want)
	}
}

func TestCreatePlaylist(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/user1/playlists" {
			t.Errorf("request = %s %s, want POST /users/user1/playlists", r.Method, r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["name"] != "Backup" {
			t.Errorf("name = %v, want Backup", body["name"])
		}
		if body["public"] != false {
			t.Errorf("public = %v, want false", body["public"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "p9", "name": "Backup", "external_urls": {"spotify": "https://open.spotify.com/playlist/p9"}}`))
	})

	got, err := client.CreatePlaylist(context.Background(), "user1", "Backup", "Liked songs backup", false)
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}

	want := library.Playlist{ID: "p9", URL: "https://open.spotify.com/playlist/p9"}
	if got != want {
		t.Errorf("CreatePlaylist() = %+v, want %+v", got, want)
	}
}

func TestAddTracks(t *testing.T) {
	var gotURIs []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/playlists/p1/tracks" {
			t.Errorf("request = %s %s, want POST /playlists/p1/tracks", r.Method, r.URL.Path)
		}

		var body struct {
			URIs []string `json:"uris"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		gotURIs = body.URIs

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"snapshot_id": "snap1"}`))
	})

	if err := client.AddTracks(context.Background(), "p1", []string{"a", "b"}); err != nil {
		t.Fatalf("AddTracks() error = %v", err)
	}

	want := []string{"spotify:track:a", "spotify:track:b"}
	if !slices.Equal(gotURIs, want) {
		t.Errorf("uris = %v, want %v", gotURIs, want)
	}
}

func TestAddTracksBatchLimit(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"empty batch is a no-op", 0, false},
		{"over the limit", library.MaxBatchSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			})

			ids := make([]string, tt.count)
			for i := range ids {
				ids[i] = "t"
			}

			err := client.AddTracks(context.Background(), "p1", ids)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddTracks() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("path = %q, want /me", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "user1", "display_name": "Test User"}`))
	})

	got, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}

	want := library.User{ID: "user1", DisplayName: "Test User"}
	if got != want {
		t.Errorf("CurrentUser() = %+v, want %+v", got, want)
	}
}

func TestCurrentUserError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CurrentUser(context.Background())
	if err == nil {
		t.Error("CurrentUser() error = nil, want API error")
	}
}
