// Package record defines the normalized dataset record and the repository
// boundary to the local metadata store. Records are constructed fresh on
// every import attempt and handed to a Repository, which owns the stored
// representation; the harvester never persists a Dataset directly.
package record

import "context"

// Record store lifecycle states.
const (
	// StateActive marks a live record
	StateActive = "active"
	// StateDeleted marks a soft-deleted record, excluded from
	// identifier lookups
	StateDeleted = "deleted"
)

// Tag is a normalized classification label.
type Tag struct {
	Name string `json:"name"`
}

// Extra is an extension key/value pair on a record. Domain metadata and
// harvest provenance fields both travel as extras.
type Extra struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Resource is a downloadable distribution of a dataset.
type Resource struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Dataset is the normalized representation of one harvested dataset.
type Dataset struct {
	// ID is the local store's identity, empty until created
	ID string `json:"id,omitempty"`

	// Title is the display name from the remote catalog
	Title string `json:"title"`

	// Name is the URL-safe name derived from Title
	Name string `json:"name"`

	// URL is the dataset's canonical page on the remote catalog
	URL string `json:"url,omitempty"`

	// Notes is the dataset description
	Notes string `json:"notes,omitempty"`

	// Author is the attribution string
	Author string `json:"author,omitempty"`

	// Tags is the deduplicated, munged tag set
	Tags []Tag `json:"tags,omitempty"`

	// Extras carries domain metadata plus harvest provenance
	Extras []Extra `json:"extras,omitempty"`

	// Identifier is the dataset's external identifier; the reconciler
	// keys create-vs-update decisions on it
	Identifier string `json:"identifier,omitempty"`

	// OwnerOrg is the local organization owning the record, inherited
	// from the harvest source
	OwnerOrg string `json:"owner_org,omitempty"`

	// Provenance is set only when the remote catalog declares one
	Provenance string `json:"provenance,omitempty"`

	// Resources lists download locators; harvested datasets carry
	// exactly one synthesized CSV resource
	Resources []Resource `json:"resources,omitempty"`

	// State is the store lifecycle state, managed by the repository
	State string `json:"state,omitempty"`
}

// Extra returns the value of the first extra with the given key.
func (d *Dataset) Extra(key string) (string, bool) {
	for _, e := range d.Extras {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Repository is the boundary to the local metadata store. Implementations
// adapt concrete stores (a CKAN-style action API, an in-memory fake); the
// harvester treats the store as opaque.
type Repository interface {
	// Show returns a record by its local ID, or errors.ErrNotFound
	Show(ctx context.Context, id string) (*Dataset, error)

	// Create stores a new record and returns it with ID assigned
	Create(ctx context.Context, ds *Dataset) (*Dataset, error)

	// Update overwrites the record identified by ds.ID
	Update(ctx context.Context, ds *Dataset) (*Dataset, error)

	// Delete removes a record by its local ID
	Delete(ctx context.Context, id string) error

	// FindByIdentifier returns all active records claiming the external
	// identifier. More than one result is a store integrity anomaly the
	// caller logs and works around; it is never corrected here.
	FindByIdentifier(ctx context.Context, identifier string) ([]*Dataset, error)
}
