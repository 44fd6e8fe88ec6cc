// Package auth runs the Spotify authorization code flow on a loopback redirect
// and keeps the resulting token on disk between runs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/justestif/liked-to-playlist/internal/config"
)

const callbackTimeout = 2 * time.Minute

var (
	// ErrAuthTimeout is returned when the OAuth callback is not received in time.
	ErrAuthTimeout = errors.New("authentication timed out waiting for callback")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// Scopes requested from Spotify: read the library, write public and private playlists.
var Scopes = []string{
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
}

// Authenticator handles Spotify OAuth2 authentication.
type Authenticator struct {
	auth        *spotifyauth.Authenticator
	cache       *TokenCache
	timeout     time.Duration
	listenAddr  string
	callback    string
	logger      *log.Logger
	out         io.Writer
	openBrowser bool
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithLogger sets the logger for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *Authenticator) {
		a.logger = l
	}
}

// WithOutput sets where user instructions are printed.
func WithOutput(w io.Writer) Option {
	return func(a *Authenticator) {
		a.out = w
	}
}

// WithBrowser controls whether the authorization URL is opened in a browser.
func WithBrowser(open bool) Option {
	return func(a *Authenticator) {
		a.openBrowser = open
	}
}

// New creates an Authenticator from cfg.
// Returns config.ErrMissingCredentials if either credential is empty.
func New(cfg *config.Config, opts ...Option) (*Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URL: %w", err)
	}
	if redirect.Host == "" {
		return nil, fmt.Errorf("redirect URL %q has no host", cfg.RedirectURL)
	}

	callback := redirect.Path
	if callback == "" {
		callback = "/"
	}

	a := &Authenticator{
		auth: spotifyauth.New(
			spotifyauth.WithClientID(cfg.ClientID),
			spotifyauth.WithClientSecret(cfg.ClientSecret),
			spotifyauth.WithRedirectURL(cfg.RedirectURL),
			spotifyauth.WithScopes(Scopes...),
		),
		timeout:     cfg.RequestTimeout,
		listenAddr:  redirect.Host,
		callback:    callback,
		logger:      log.New(io.Discard),
		out:         os.Stdout,
		openBrowser: true,
	}
	for _, opt := range opts {
		opt(a)
	}

	cache, err := CacheFor(cfg)
	if err != nil {
		return nil, err
	}
	a.cache = cache

	return a, nil
}

// Authenticate returns an authenticated Spotify client.
// It first checks for a cached token and uses it if valid/refreshable.
// Otherwise, it runs the full OAuth flow.
func (a *Authenticator) Authenticate(ctx context.Context) (*spotify.Client, error) {
	token, err := a.cache.Load()
	if err != nil {
		return nil, fmt.Errorf("loading cached token: %w", err)
	}

	if token != nil {
		// oauth2 refreshes the token if needed
		client := a.newClient(ctx, token)

		_, err := client.CurrentUser(ctx)
		if err == nil {
			newToken, tokenErr := client.Token()
			if tokenErr == nil && newToken.AccessToken != token.AccessToken {
				if err := a.cache.Save(newToken); err != nil {
					a.logger.Warn("failed to cache refreshed token", "err", err)
				}
			}
			a.logger.Debug("using cached token", "path", a.cache.Path())
			return client, nil
		}

		a.logger.Info("cached token invalid, starting new authentication", "err", err)
	}

	return a.runOAuthFlow(ctx)
}

// newClient builds a Spotify client whose requests share the configured timeout.
func (a *Authenticator) newClient(ctx context.Context, token *oauth2.Token) *spotify.Client {
	httpClient := a.auth.Client(ctx, token)
	httpClient.Timeout = a.timeout
	return spotify.New(httpClient, spotify.WithRetry(true))
}

// runOAuthFlow performs the full OAuth authorization code flow.
func (a *Authenticator) runOAuthFlow(ctx context.Context) (*spotify.Client, error) {
	state := generateState()

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	server := &http.Server{
		Addr:              a.listenAddr,
		Handler:           a.callbackRouter(state, tokenCh, errCh),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	authURL := a.auth.AuthURL(state)
	fmt.Fprintln(a.out, "\nTo authenticate, open this URL in your browser:")
	fmt.Fprintln(a.out, authURL)
	fmt.Fprintln(a.out, "\nWaiting for authentication...")

	if a.openBrowser {
		if err := OpenBrowser(authURL); err != nil {
			a.logger.Warn("could not open browser", "err", err)
		}
	}

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
	case err := <-errCh:
		_ = server.Shutdown(ctx)
		return nil, err
	case <-time.After(callbackTimeout):
		_ = server.Shutdown(ctx)
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	if err := a.cache.Save(token); err != nil {
		// auth succeeded, only the cache is lost
		a.logger.Warn("failed to cache token", "err", err)
	}

	return a.newClient(ctx, token), nil
}

// callbackRouter serves the OAuth redirect target.
func (a *Authenticator) callbackRouter(state string, tokenCh chan<- *oauth2.Token, errCh chan<- error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(a.callback, func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, tokenCh, errCh)
	})
	return r
}

// handleCallback processes the OAuth callback from Spotify.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, expectedState string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		sendErr(errCh, ErrStateMismatch)
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "Authentication failed: "+errMsg, http.StatusBadRequest)
		sendErr(errCh, fmt.Errorf("spotify auth error: %s", errMsg))
		return
	}

	token, err := a.auth.Token(r.Context(), expectedState, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		sendErr(errCh, fmt.Errorf("exchanging code for token: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body>
<h1>Authentication Successful!</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)

	select {
	case tokenCh <- token:
	default:
	}
}

// sendErr reports err unless an earlier error is still pending.
func sendErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}

// generateState creates a random state string for OAuth.
func generateState() string {
	return uuid.NewString()
}
