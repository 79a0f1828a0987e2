package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/five82/hearth/internal/config"
	"github.com/five82/hearth/internal/logging"
	"github.com/five82/hearth/internal/prefs"
	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/state"
	"github.com/five82/hearth/internal/token"
	"github.com/five82/hearth/internal/ui"
)

// Options configure the hearth application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/hearth/prefs.toml
	APIURL     string // overrides the configured backend when set
}

// Run boots the hearth TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, closer, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	tokens, err := token.NewFile(cfg.TokenPath)
	if err != nil {
		return fmt.Errorf("init token store: %w", err)
	}

	client, err := rental.NewClient(cfg.APIURL,
		rental.WithTimeout(cfg.RequestTimeout),
		rental.WithTokens(tokens),
		rental.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init rental client: %w", err)
	}

	store := state.New(client, tokens, logger)
	store.Catalog.SetCity(userPrefs.City)

	logger.Info("starting", "api", cfg.APIURL, "refresh", cfg.RefreshEvery.String())

	wait := startBootstrap(ctx, store)
	go func() { _ = wait() }()

	StartRefresher(ctx, store.Catalog, cfg.RefreshEvery, logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Config:    &cfg,
		Logger:    logger,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}

// startBootstrap puts the session and the catalog into their loading states
// and returns a function that performs the requests. Favorites are fetched
// once the session check confirms a signed-in user.
func startBootstrap(ctx context.Context, store *state.Store) func() error {
	checkSession := store.Session.CheckSession(ctx)
	fetchOffers := store.Catalog.FetchOffers(ctx)

	return func() error {
		var g errgroup.Group
		g.Go(func() error {
			if checkSession() == state.AuthAuthenticated {
				store.Favorites.FetchFavorites(ctx)()
			}
			return nil
		})
		g.Go(func() error {
			fetchOffers()
			return nil
		})
		return g.Wait()
	}
}

func componentLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger.With("component", name)
}
