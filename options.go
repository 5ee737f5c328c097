package gleaner

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/openfield/gleaner/internal/registry"
	"github.com/openfield/gleaner/internal/socrata"
	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/record"
)

// Option is a function that configures a Gleaner instance.
type Option func(*config) error

// config collects the wiring a Gleaner is built from.
type config struct {
	store       harvest.Store
	repository  record.Repository
	harvester   string
	httpTimeout time.Duration
	pageSize    int
	catalogBase string
	logger      *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		harvester: socrata.Name,
	}
}

// WithStore configures the harvest object store. Without it runs are
// kept in an in-memory store and lost on exit.
func WithStore(store harvest.Store) Option {
	return func(c *config) error {
		if store == nil {
			return errors.NewValidationError("store", nil, "store must not be nil")
		}
		c.store = store
		return nil
	}
}

// WithRepository configures the local record store harvested datasets are
// reconciled into. Without it records land in an in-memory repository.
func WithRepository(repo record.Repository) Option {
	return func(c *config) error {
		if repo == nil {
			return errors.NewValidationError("repository", nil, "repository must not be nil")
		}
		c.repository = repo
		return nil
	}
}

// WithHarvester selects which registered harvester executes runs.
// Defaults to the Socrata harvester.
func WithHarvester(name string) Option {
	return func(c *config) error {
		if !registry.Has(name) {
			return errors.NewValidationError("harvester", name, "unsupported harvester: "+name)
		}
		c.harvester = name
		return nil
	}
}

// WithHTTPTimeout bounds each catalog API request.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return errors.NewValidationError("http_timeout", timeout, "must not be negative")
		}
		c.httpTimeout = timeout
		return nil
	}
}

// WithPageSize configures how many datasets each catalog page requests.
func WithPageSize(size int) Option {
	return func(c *config) error {
		c.pageSize = size
		return nil
	}
}

// WithCatalogBase overrides the discovery API base URL, mainly for tests
// and on-premise catalog installations.
func WithCatalogBase(base string) Option {
	return func(c *config) error {
		c.catalogBase = base
		return nil
	}
}

// WithLogger attaches a logger to every run's context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// options applies the given options to the config.
func (g *gleaner) options(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(g.config); err != nil {
			return err
		}
	}
	return nil
}
