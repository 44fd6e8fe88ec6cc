// Command liked-to-playlist copies your Spotify liked songs into a playlist.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/justestif/liked-to-playlist/internal/app"
	"github.com/justestif/liked-to-playlist/internal/auth"
	"github.com/justestif/liked-to-playlist/internal/config"
	"github.com/justestif/liked-to-playlist/internal/logging"
	"github.com/justestif/liked-to-playlist/internal/spotify"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			fmt.Fprintln(os.Stderr, "Error: Spotify credentials not found!")
			fmt.Fprintln(os.Stderr, config.Remediation)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newCommand().Run(ctx, os.Args)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "liked-to-playlist",
		Usage: "Copy your Spotify liked songs into a new or existing playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "File with SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log API requests",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the login URL without opening a browser",
			},
		},
		Action: copyLikedSongs,
		Commands: []*cli.Command{
			{
				Name:   "logout",
				Usage:  "Remove the cached Spotify token",
				Action: logout,
			},
		},
	}
}

// copyLikedSongs authenticates and runs the interactive copy.
func copyLikedSongs(ctx context.Context, cmd *cli.Command) error {
	logger := logging.New(os.Stderr, cmd.Bool("debug"))

	cfg, err := config.Load(cmd.String("env-file"))
	if err != nil {
		return err
	}

	authenticator, err := auth.New(cfg,
		auth.WithLogger(logger),
		auth.WithBrowser(!cmd.Bool("no-browser")),
	)
	if err != nil {
		return err
	}

	client, err := authenticator.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	api := spotify.New(client, spotify.WithLogger(logger))
	return app.New(api, app.WithLogger(logger)).Run(ctx)
}

// logout deletes the cached token.
func logout(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Parse(cmd.String("env-file"))
	if err != nil {
		return err
	}

	cache, err := auth.CacheFor(cfg)
	if err != nil {
		return err
	}

	if err := cache.Delete(); err != nil {
		return err
	}
	fmt.Printf("Removed cached token at %s\n", cache.Path())
	return nil
}
