// Package gleaner harvests dataset metadata from remote open-data catalogs
// into a local record store. A harvest run discovers every dataset a
// catalog publishes (gather), snapshots each one as an immutable harvest
// object, and reconciles the snapshots against the local store (import),
// creating, updating, or deleting records so the local catalog mirrors the
// remote one.
//
// The facade wires a harvester from the registry against a harvest object
// store and a record repository. Both default to in-memory implementations
// so a Gleaner works out of the box:
//
//	g, err := gleaner.New(
//	    gleaner.WithStore(store),
//	    gleaner.WithRepository(repo),
//	)
//	if err != nil {
//	    return err
//	}
//	result, err := g.Run(ctx, &harvest.Source{
//	    ID:       "src-1",
//	    URL:      "https://data.example.com",
//	    Title:    "Example Open Data",
//	    OwnerOrg: "org-1",
//	})
package gleaner

import (
	"context"
	"fmt"

	"github.com/openfield/gleaner/internal/objectstore/memory"
	"github.com/openfield/gleaner/internal/registry"
	repomemory "github.com/openfield/gleaner/internal/repository/memory"
	"github.com/openfield/gleaner/internal/transport"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/record"
)

// Gleaner executes harvest runs against configured sources.
type Gleaner interface {
	// Run executes one gather-fetch-import run against the source and
	// returns its outcome. Per-object failures are folded into the
	// result; only setup failures return an error.
	Run(ctx context.Context, source *harvest.Source) (*RunResult, error)

	// Harvesters lists the registered harvesters' self-descriptions
	Harvesters() []harvest.Metadata
}

// gleaner is the internal implementation of the Gleaner interface.
type gleaner struct {
	config *config
	store  harvest.Store
	repo   record.Repository
}

// New creates a new Gleaner instance with the given options.
func New(opts ...Option) (Gleaner, error) {
	g := &gleaner{
		config: defaultConfig(),
	}

	if err := g.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	// Use provided store or default to the in-memory one
	if g.config.store != nil {
		g.store = g.config.store
	} else {
		g.store = memory.New()
	}

	// Same for the record repository
	if g.config.repository != nil {
		g.repo = g.config.repository
	} else {
		g.repo = repomemory.New()
	}

	return g, nil
}

// Harvesters lists the registered harvesters' self-descriptions.
func (g *gleaner) Harvesters() []harvest.Metadata {
	return registry.Infos()
}

// deps bundles the facade's wiring for harvester factories.
func (g *gleaner) deps() registry.Deps {
	deps := registry.Deps{
		Store:       g.store,
		Repository:  g.repo,
		CatalogBase: g.config.catalogBase,
		PageSize:    g.config.pageSize,
	}
	if g.config.httpTimeout > 0 {
		deps.Transport = &transport.Config{Timeout: g.config.httpTimeout}
	}
	return deps
}
