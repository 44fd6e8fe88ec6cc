// Package config loads Spotify credentials and session settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET is not set.
var ErrMissingCredentials = errors.New("missing SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET environment variable")

// Remediation explains how to provide credentials.
const Remediation = `Create a .env file with:
  SPOTIFY_CLIENT_ID=your_client_id
  SPOTIFY_CLIENT_SECRET=your_client_secret

Get credentials at: https://developer.spotify.com/dashboard`

// Config holds Spotify API credentials and session settings.
type Config struct {
	ClientID     string `env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	// RedirectURL must match the redirect URI registered for the Spotify app.
	// It must point at the loopback interface.
	RedirectURL string `env:"SPOTIFY_REDIRECT_URI" envDefault:"http://127.0.0.1:8080"`

	// RequestTimeout applies to every Spotify API request.
	RequestTimeout time.Duration `env:"SPOTIFY_REQUEST_TIMEOUT" envDefault:"30s"`

	// TokenCachePath overrides the default token cache location.
	TokenCachePath string `env:"SPOTIFY_TOKEN_CACHE"`
}

// Load reads configuration from environment variables and validates it.
// If envFile exists it is loaded first; variables already set in the
// environment take precedence over the file.
// Returns ErrMissingCredentials if either credential is empty.
func Load(envFile string) (*Config, error) {
	cfg, err := Parse(envFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse reads configuration like Load without requiring credentials.
func Parse(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// Validate checks that both credentials are present.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}
