// Package app wires configuration, storage, caching and the façades into
// one value the command line drives.
package app

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/beesaferoot/ams-store/internal/cache"
	"github.com/beesaferoot/ams-store/internal/config"
	"github.com/beesaferoot/ams-store/internal/report"
	"github.com/beesaferoot/ams-store/internal/repository"
	"github.com/beesaferoot/ams-store/internal/search"
	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/migration"
)

type App struct {
	Log     *slog.Logger
	DB      *gorm.DB
	Cache   cache.Cache
	Repos   *repository.Repositories
	Reports *report.Service
	Search  *search.Service

	closers []func() error
}

// New connects to the database, pings it and, when configured, connects to
// Redis. Without a Redis URL the cache is process-local.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	db, err := store.Open(store.Config{URL: cfg.Database.URL, Debug: cfg.Database.Debug}, log)
	if err != nil {
		return nil, err
	}
	a := &App{Log: log, DB: db}
	a.closers = append(a.closers, func() error { return store.Close(db) })
	if err := store.Ping(ctx, db); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Cache.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix, cfg.Cache.TTL, log.With("component", "cache"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Cache = r
		a.closers = append(a.closers, r.Close)
	} else {
		a.Cache = cache.NewMemory(cfg.Cache.TTL)
	}

	a.Repos = repository.New(db, nil)
	a.Reports = report.New(store.NewProcedures(db), a.Cache, log)
	a.Search = search.New(store.NewSearchIndex(db, nil), a.Cache, log)
	return a, nil
}

// Migrator returns a migrator holding every schema migration.
func (a *App) Migrator() *migration.Migrator {
	return migration.NewMigrator(a.DB, a.Log, migration.All()...)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
