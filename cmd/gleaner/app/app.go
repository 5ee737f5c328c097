// Package app provides the application context and dependency management
// for the gleaner CLI. It centralizes configuration, logging, and the
// wiring of stores and repositories so commands stay thin.
package app

import (
	"github.com/rs/zerolog"

	"github.com/openfield/gleaner"
	objectmemory "github.com/openfield/gleaner/internal/objectstore/memory"
	"github.com/openfield/gleaner/internal/objectstore/postgres"
	"github.com/openfield/gleaner/internal/repository/ckanapi"
	repomemory "github.com/openfield/gleaner/internal/repository/memory"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/record"
)

// App represents the gleaner application with all its dependencies.
// Commands reach their stores and the facade through it instead of
// wiring those themselves.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Store opens the harvest object store selected by the configuration:
// PostgreSQL when a database host is configured, otherwise the in-memory
// store, whose runs are lost on exit.
func (a *App) Store() (harvest.Store, error) {
	if a.config.DatabaseHost == "" {
		a.logger.Debug().Msg("No database configured, using in-memory object store")
		return objectmemory.New(), nil
	}

	db, err := postgres.Open(postgres.Config{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		Database: a.config.DatabaseName,
		SSLMode:  a.config.DatabaseSSLMode,
	})
	if err != nil {
		return nil, err
	}
	return postgres.New(db), nil
}

// Repository selects the record repository: the in-memory one when
// dry-run is requested or no portal is configured, the CKAN action API
// otherwise.
func (a *App) Repository(dryRun bool) (record.Repository, error) {
	if dryRun || a.config.PortalURL == "" {
		if !dryRun {
			a.logger.Debug().Msg("No portal configured, using in-memory record repository")
		}
		return repomemory.New(), nil
	}

	return ckanapi.New(ckanapi.Config{
		BaseURL: a.config.PortalURL,
		APIKey:  a.config.PortalAPIKey,
		Timeout: a.config.HTTPTimeout,
	})
}

// Gleaner builds a facade wired against the app's store and repository,
// with any extra options appended. Runs are one-shot, so each command
// invocation builds its own instance.
func (a *App) Gleaner(store harvest.Store, repo record.Repository, opts ...gleaner.Option) (gleaner.Gleaner, error) {
	base := []gleaner.Option{
		gleaner.WithStore(store),
		gleaner.WithRepository(repo),
		gleaner.WithLogger(a.logger),
	}
	if a.config.PageSize > 0 {
		base = append(base, gleaner.WithPageSize(a.config.PageSize))
	}
	if a.config.CatalogBase != "" {
		base = append(base, gleaner.WithCatalogBase(a.config.CatalogBase))
	}
	if a.config.HTTPTimeout > 0 {
		base = append(base, gleaner.WithHTTPTimeout(a.config.HTTPTimeout))
	}
	return gleaner.New(append(base, opts...)...)
}
