package harvest

import "context"

// RunStore persists harvest runs and their run-scoped error records.
type RunStore interface {
	// CreateRun persists a new run, assigning run.ID when empty
	CreateRun(ctx context.Context, run *Run) error

	// GetRun returns a run by ID, or errors.ErrNotFound
	GetRun(ctx context.Context, id string) (*Run, error)

	// UpdateRun persists changed run status and counters
	UpdateRun(ctx context.Context, run *Run) error

	// SaveGatherError records a run-scoped failure
	SaveGatherError(ctx context.Context, ge *GatherError) error

	// GatherErrors lists a run's failure records in creation order
	GatherErrors(ctx context.Context, runID string) ([]GatherError, error)
}

// ObjectStore persists harvest objects, their current-flag bookkeeping,
// and object-scoped error records.
type ObjectStore interface {
	// CreateObject persists a new object, assigning obj.ID when empty
	CreateObject(ctx context.Context, obj *Object) error

	// GetObject returns an object by ID, or errors.ErrNotFound
	GetObject(ctx context.Context, id string) (*Object, error)

	// FindCurrentByGUID returns the object holding the current flag for
	// a GUID, or nil when no object does. The filter is a plain boolean
	// equality on the flag column.
	FindCurrentByGUID(ctx context.Context, guid string) (*Object, error)

	// MarkCurrent sets the current flag on the object and persists it
	// immediately
	MarkCurrent(ctx context.Context, obj *Object) error

	// MarkNotCurrent clears the current flag on the object and persists
	// it immediately
	MarkNotCurrent(ctx context.Context, obj *Object) error

	// SetObjectState moves the object to the given lifecycle state,
	// stamping ImportedAt when the state is StateImported
	SetObjectState(ctx context.Context, id string, state State) error

	// SaveObjectError records an object-scoped failure
	SaveObjectError(ctx context.Context, oe *ObjectError) error

	// ObjectErrors lists an object's failure records in creation order
	ObjectErrors(ctx context.Context, objectID string) ([]ObjectError, error)
}

// Store is the full persistence contract harvesters depend on.
type Store interface {
	RunStore
	ObjectStore
}
