// Package harvest defines the core types and contracts of the harvesting
// pipeline. A harvester discovers datasets on a remote catalog (gather),
// optionally enriches them (fetch), and reconciles them into the local
// record store (import). Each stage operates on harvest objects persisted
// in a Store, so runs are resumable and failures are queryable afterwards.
//
// The package holds no I/O of its own: concrete harvesters live under
// internal/, and stores implement the Store interfaces declared here.
//
// Example usage:
//
//	ids, err := harvester.Gather(ctx, run, source)
//	if err != nil {
//	    // pages before the failure are already committed
//	}
//	for _, id := range ids {
//	    obj, _ := store.GetObject(ctx, id)
//	    _ = harvester.Fetch(ctx, obj)
//	    _ = harvester.Import(ctx, obj)
//	}
package harvest

import "context"

// Metadata describes a harvester implementation to hosts and CLIs.
type Metadata struct {
	// Name is the registry key, e.g. "socrata"
	Name string

	// Title is the human-readable harvester name
	Title string

	// Description explains what catalogs the harvester understands
	Description string
}

// Stage labels for error records and logging.
const (
	StageGather = "Gather"
	StageFetch  = "Fetch"
	StageImport = "Import"
)

// Harvester is the three-stage contract every catalog harvester implements.
type Harvester interface {
	// Info returns the harvester's self-description
	Info() Metadata

	// Gather discovers datasets on the remote catalog and persists one
	// harvest object per dataset. It returns the IDs of the created
	// objects in discovery order. A transport failure mid-pagination
	// returns the IDs gathered so far together with the error.
	Gather(ctx context.Context, run *Run, source *Source) ([]string, error)

	// Fetch enriches a harvest object with additional content. Harvesters
	// that capture everything during gather implement this as a no-op.
	Fetch(ctx context.Context, obj *Object) error

	// Import reconciles one harvest object into the local record store.
	// Failures are recorded against the object and never abort the run.
	Import(ctx context.Context, obj *Object) error
}
