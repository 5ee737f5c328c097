// Package socrata implements a harvester for Socrata open-data catalogs.
// It discovers datasets through the Socrata discovery API, snapshots each
// dataset descriptor as a harvest object during gather, and reconciles the
// descriptors into the local record store during import. Fetch is a no-op
// because the discovery API returns complete descriptors up front.
package socrata

import (
	"context"

	"github.com/openfield/gleaner/pkg/constants"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/logging"
	"github.com/openfield/gleaner/pkg/record"
)

// Name is the harvester's registry key.
const Name = "socrata"

// Harvester harvests Socrata data catalogs.
type Harvester struct {
	store    harvest.Store
	repo     record.Repository
	client   *Client
	pageSize int
}

// New creates a Socrata harvester. A pageSize of zero or less uses the
// default catalog page size.
func New(store harvest.Store, repo record.Repository, client *Client, pageSize int) *Harvester {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return &Harvester{
		store:    store,
		repo:     repo,
		client:   client,
		pageSize: pageSize,
	}
}

// Info returns the harvester's self-description.
func (h *Harvester) Info() harvest.Metadata {
	return harvest.Metadata{
		Name:        Name,
		Title:       "Socrata",
		Description: "Harvests from Socrata data catalogues",
	}
}

// Fetch is a no-op: all package data is obtained during the gather stage.
func (h *Harvester) Fetch(ctx context.Context, obj *harvest.Object) error {
	log := logging.FromContext(ctx)
	if obj != nil {
		log.Debug().Str("object_id", obj.ID).Msg("fetch stage: nothing to fetch")
	}
	return nil
}
