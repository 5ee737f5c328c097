// Package memory provides an in-memory record repository. It mirrors the
// CKAN action API's observable behavior closely enough for tests and local
// runs: deletes are soft, name collisions are rejected, and identifier
// lookups only see active datasets.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/record"
)

// Repository is a concurrency-safe in-memory record.Repository.
type Repository struct {
	mu       sync.RWMutex
	datasets map[string]*record.Dataset
	order    []string
}

var _ record.Repository = (*Repository)(nil)

// New creates an empty repository.
func New() *Repository {
	return &Repository{
		datasets: make(map[string]*record.Dataset),
	}
}

// Seed loads datasets without the checks Create applies, assigning IDs and
// the active state where missing. It exists so tests and local fixtures can
// set up arbitrary store states, including anomalous ones.
func (r *Repository) Seed(datasets ...*record.Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ds := range datasets {
		c := cloneDataset(ds)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.State == "" {
			c.State = record.StateActive
		}
		if _, exists := r.datasets[c.ID]; !exists {
			r.order = append(r.order, c.ID)
		}
		r.datasets[c.ID] = c
		ds.ID = c.ID
	}
}

// Show returns a copy of the dataset with the given ID or name.
func (r *Repository) Show(_ context.Context, id string) (*record.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ds, ok := r.datasets[id]; ok {
		return cloneDataset(ds), nil
	}
	for _, storedID := range r.order {
		if ds := r.datasets[storedID]; ds.Name == id {
			return cloneDataset(ds), nil
		}
	}
	return nil, errors.NewNotFoundError("dataset", id)
}

// Create stores a new dataset. Names must be unique among active datasets.
func (r *Repository) Create(_ context.Context, ds *record.Dataset) (*record.Dataset, error) {
	if ds == nil {
		return nil, errors.NewValidationError("dataset", nil, "dataset cannot be nil")
	}
	if ds.Name == "" {
		return nil, errors.NewValidationError("name", "", "name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		stored := r.datasets[id]
		if stored.Name == ds.Name && stored.State == record.StateActive {
			return nil, fmt.Errorf("dataset name %q: %w", ds.Name, errors.ErrAlreadyExists)
		}
	}

	c := cloneDataset(ds)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := r.datasets[c.ID]; exists {
		return nil, fmt.Errorf("dataset id %q: %w", c.ID, errors.ErrAlreadyExists)
	}
	c.State = record.StateActive
	r.datasets[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneDataset(c), nil
}

// Update replaces the stored dataset with the given ID.
func (r *Repository) Update(_ context.Context, ds *record.Dataset) (*record.Dataset, error) {
	if ds == nil {
		return nil, errors.NewValidationError("dataset", nil, "dataset cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.datasets[ds.ID]; !exists {
		return nil, errors.NewNotFoundError("dataset", ds.ID)
	}
	c := cloneDataset(ds)
	if c.State == "" {
		c.State = record.StateActive
	}
	r.datasets[ds.ID] = c
	return cloneDataset(c), nil
}

// Delete soft-deletes the dataset with the given ID.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, exists := r.datasets[id]
	if !exists {
		return errors.NewNotFoundError("dataset", id)
	}
	ds.State = record.StateDeleted
	return nil
}

// FindByIdentifier returns copies of the active datasets carrying the
// identifier, in creation order.
func (r *Repository) FindByIdentifier(_ context.Context, identifier string) ([]*record.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*record.Dataset
	for _, id := range r.order {
		ds := r.datasets[id]
		if ds.Identifier == identifier && ds.State == record.StateActive {
			out = append(out, cloneDataset(ds))
		}
	}
	return out, nil
}

// Len returns the number of stored datasets, deleted ones included.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.datasets)
}

func cloneDataset(ds *record.Dataset) *record.Dataset {
	c := *ds
	if ds.Tags != nil {
		c.Tags = make([]record.Tag, len(ds.Tags))
		copy(c.Tags, ds.Tags)
	}
	if ds.Extras != nil {
		c.Extras = make([]record.Extra, len(ds.Extras))
		copy(c.Extras, ds.Extras)
	}
	if ds.Resources != nil {
		c.Resources = make([]record.Resource, len(ds.Resources))
		copy(c.Resources, ds.Resources)
	}
	return &c
}
