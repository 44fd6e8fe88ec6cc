// Package app runs the interactive liked-songs copy.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/justestif/liked-to-playlist/internal/library"
)

const (
	modeCreate = "1"
	modeAppend = "2"

	// PlaylistDescription is set on playlists created by the tool.
	PlaylistDescription = "Liked songs backup"
)

var (
	ruleStyle  = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// App prompts the user and copies liked songs through a library.API.
type App struct {
	api    library.API
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger
	now    func() time.Time
}

// Option configures an App.
type Option func(*App)

// WithInput sets where answers to prompts are read from.
func WithInput(r io.Reader) Option {
	return func(a *App) {
		a.in = bufio.NewReader(r)
	}
}

// WithOutput sets where prompts and progress are written.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithClock sets the time source used for the default playlist name.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// New creates an App reading from stdin and writing to stdout.
func New(api library.API, opts ...Option) *App {
	a := &App{
		api:    api,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run fetches the liked songs and copies them into a new or existing playlist.
//
// Empty results, an invalid playlist URL and an unknown menu choice end the
// run with a message and a nil error. API failures are returned; tracks
// appended before a failing batch stay in the playlist.
func (a *App) Run(ctx context.Context) error {
	a.banner("Liked Songs to Playlist")

	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as: %s\n\n", user.DisplayName)

	fmt.Fprintln(a.out, "Fetching your liked songs...")
	liked, err := library.FetchLikedSongs(ctx, a.api, &progress{w: a.out})
	if err != nil {
		fmt.Fprintln(a.out)
		return err
	}
	fmt.Fprintf(a.out, "\nTotal: %d songs\n", len(liked))

	if len(liked) == 0 {
		fmt.Fprintln(a.out, "No liked songs found.")
		return nil
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Options:")
	fmt.Fprintln(a.out, "  1. Create a new playlist")
	fmt.Fprintln(a.out, "  2. Add to an existing playlist")
	fmt.Fprintln(a.out)

	choice, err := a.prompt(ctx, "Choose (1/2) [1]: ", modeCreate)
	if err != nil {
		return err
	}
	a.logger.Debug("mode selected", "choice", choice)

	var done bool
	switch choice {
	case modeCreate:
		done, err = a.copyToNewPlaylist(ctx, liked)
	case modeAppend:
		done, err = a.copyToExistingPlaylist(ctx, liked)
	default:
		fmt.Fprintln(a.out, "Invalid option!")
		return nil
	}
	if err != nil || !done {
		return err
	}

	fmt.Fprintln(a.out)
	a.banner("Done!")
	return nil
}

// DefaultPlaylistName returns the name offered when creating a playlist.
func DefaultPlaylistName(now time.Time) string {
	return "Liked Songs - " + now.Format("2006-01-02")
}

func (a *App) copyToNewPlaylist(ctx context.Context, liked []library.Track) (bool, error) {
	defaultName := DefaultPlaylistName(a.now())
	name, err := a.prompt(ctx, fmt.Sprintf("Playlist name [%s]: ", defaultName), defaultName)
	if err != nil {
		return false, err
	}

	fmt.Fprintf(a.out, "\nCreating playlist '%s'...\n", name)
	playlist, err := library.CreatePlaylist(ctx, a.api, name, PlaylistDescription)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(a.out, "Created: %s\n", playlist.URL)

	return true, a.addTracks(ctx, playlist.ID, liked, "songs")
}

func (a *App) copyToExistingPlaylist(ctx context.Context, liked []library.Track) (bool, error) {
	url, err := a.prompt(ctx, "Paste playlist URL: ", "")
	if err != nil {
		return false, err
	}

	playlistID, err := library.ParsePlaylistID(url)
	if err != nil {
		a.logger.Debug("rejected playlist URL", "url", url)
		fmt.Fprintln(a.out, "Invalid URL!")
		return false, nil
	}

	fmt.Fprintln(a.out, "\nChecking for duplicates...")
	existing, err := library.ExistingTrackIDs(ctx, a.api, playlistID)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(a.out, "Found %d existing tracks\n", len(existing))

	newTracks := library.NewTracks(liked, existing)
	if len(newTracks) == 0 {
		fmt.Fprintln(a.out, "All songs already in playlist!")
		return false, nil
	}

	return true, a.addTracks(ctx, playlistID, newTracks, "new songs")
}

func (a *App) addTracks(ctx context.Context, playlistID string, tracks []library.Track, noun string) error {
	fmt.Fprintf(a.out, "\nAdding %d %s...\n", len(tracks), noun)
	err := library.AddTracks(ctx, a.api, playlistID, library.TrackIDs(tracks), &progress{w: a.out})
	fmt.Fprintln(a.out)
	return err
}

// prompt prints label and reads one line. A blank answer yields def.
// Input that ends before any text is read returns io.ErrUnexpectedEOF.
// Cancelling ctx abandons the read.
func (a *App) prompt(ctx context.Context, label, def string) (string, error) {
	fmt.Fprint(a.out, label)

	type result struct {
		line string
		err  error
	}
	lineCh := make(chan result, 1)
	go func() {
		line, err := a.in.ReadString('\n')
		lineCh <- result{line, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		fmt.Fprintln(a.out)
		return "", ctx.Err()
	case r = <-lineCh:
	}

	if errors.Is(r.err, io.EOF) && r.line == "" {
		return "", fmt.Errorf("reading input: %w", io.ErrUnexpectedEOF)
	}
	if r.err != nil && !errors.Is(r.err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", r.err)
	}

	answer := strings.TrimSpace(r.line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (a *App) banner(title string) {
	rule := ruleStyle.Render(strings.Repeat("=", 50))
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out, "  "+titleStyle.Render(title))
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out)
}

// progress renders library progress on a single terminal line.
type progress struct {
	w io.Writer
}

func (p *progress) TracksFetched(count int) {
	fmt.Fprintf(p.w, "  Fetched %d songs...\r", count)
}

func (p *progress) TracksAdded(added, total int) {
	fmt.Fprintf(p.w, "  Added %d/%d songs...\r", added, total)
}
