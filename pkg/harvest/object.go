package harvest

import (
	"slices"
	"time"
)

// State represents the import lifecycle state of a harvest object.
type State string

// String returns the string representation of an object state.
func (s State) String() string {
	return string(s)
}

// Object lifecycle states. StateNew is the only non-terminal state.
const (
	// StateNew marks an object gathered but not yet imported
	StateNew State = "new"
	// StateImported marks an object reconciled into the record store
	StateImported State = "imported"
	// StateFailed marks an object whose import failed; the failure is
	// recorded as an ObjectError
	StateFailed State = "failed"
	// StateDeleted marks an object whose record was removed on request
	// of the remote catalog
	StateDeleted State = "deleted"
)

// States returns all defined object states.
func States() []State {
	return []State{
		StateNew,
		StateImported,
		StateFailed,
		StateDeleted,
	}
}

// IsValid returns true if the state is one of the defined constants.
func (s State) IsValid() bool {
	return slices.Contains(States(), s)
}

// Terminal returns true once an object can no longer change state.
func (s State) Terminal() bool {
	return s == StateImported || s == StateFailed || s == StateDeleted
}

// Extra is an auxiliary key/value attached to a harvest object, used for
// side-channel markers such as status=delete.
type Extra struct {
	Key   string
	Value string
}

// Object is an immutable snapshot of one dataset in one run. Content is
// written once at gather time and never mutated; reconciliation state
// lives in the flags around it.
type Object struct {
	// ID is assigned by the store on create when empty
	ID string

	// GUID is the dataset's external identifier on the remote catalog
	GUID string

	// RunID names the run that gathered this object
	RunID string

	// SourceID names the source the object came from
	SourceID string

	// Content is the serialized dataset descriptor exactly as gathered
	Content string

	// Current is true on the newest object for this GUID. At most one
	// object per GUID carries the flag; see the import stage for the
	// known race window when flips run concurrently.
	Current bool

	// State is the import lifecycle state
	State State

	// Extras carries auxiliary markers for this object
	Extras []Extra

	// GatheredAt is when the object was created
	GatheredAt time.Time

	// ImportedAt is when import succeeded, nil otherwise
	ImportedAt *time.Time

	// Source is the source the object belongs to. It is attached by the
	// run orchestrator before the fetch and import stages and is not
	// persisted; stores resolve it through SourceID.
	Source *Source
}

// Extra returns the value of the first extra with the given key.
func (o *Object) Extra(key string) (string, bool) {
	for _, e := range o.Extras {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}
