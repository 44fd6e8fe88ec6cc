// Package spotify adapts the Spotify Web API client to library.API.
package spotify

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"

	"github.com/justestif/liked-to-playlist/internal/library"
)

// Client wraps the Spotify API client with the calls used to copy liked songs.
type Client struct {
	api    *spotify.Client
	logger *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

var _ library.API = (*Client)(nil)

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client, opts ...Option) *Client {
	c := &Client{
		api:    api,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentUser returns the authenticated Spotify user.
func (c *Client) CurrentUser(ctx context.Context) (library.User, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return library.User{}, fmt.Errorf("getting current user: %w", err)
	}
	return library.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
	}, nil
}
