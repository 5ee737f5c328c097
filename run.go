package gleaner

import (
	"context"
	"time"

	"github.com/openfield/gleaner/internal/registry"
	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/logging"
)

// RunResult summarizes one harvest run.
type RunResult struct {
	// RunID is the persisted run's ID
	RunID string

	// Status is the run's terminal status; errored means discovery was
	// cut short, not that nothing was harvested
	Status harvest.RunStatus

	// Gathered counts harvest objects created during discovery
	Gathered int

	// Imported counts objects reconciled into the record store
	Imported int

	// Failed counts objects whose fetch or import failed
	Failed int

	// Deleted counts records removed on the remote catalog's request
	Deleted int

	// Errors lists run-level failure messages in the order recorded
	Errors []string
}

// Run executes one harvest run against the source using staged execution.
func (g *gleaner) Run(ctx context.Context, source *harvest.Source) (*RunResult, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}
	if source == nil {
		return nil, errors.NewValidationError("source", nil, "source is required")
	}

	// Step 1: Resolve the harvester with the facade's wiring
	h, err := registry.Get(g.config.harvester, g.deps())
	if err != nil {
		return nil, err
	}

	// Step 2: Scope logging to this source
	if g.config.logger != nil {
		ctx = logging.WithLogger(ctx, g.config.logger)
	}
	ctx = logging.WithSource(ctx, source.ID)

	// Step 3: Create the run record
	run := &harvest.Run{
		SourceID:  source.ID,
		Status:    harvest.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.store.CreateRun(ctx, run); err != nil {
		return nil, errors.WrapStore(harvest.StageGather, "create run", source.ID, err)
	}
	ctx = logging.WithRunID(ctx, run.ID)
	log := logging.FromContext(ctx)
	log.Info().
		Str("harvester", g.config.harvester).
		Str("source_url", source.URL).
		Msg("Harvest run started")

	// Step 4: Gather. A transport failure mid-pagination still returns
	// the objects gathered before it; those are imported below and the
	// run finishes as errored.
	ids, gatherErr := h.Gather(ctx, run, source)
	run.ObjectsGathered = len(ids)
	if gatherErr != nil {
		log.Error().
			Err(gatherErr).
			Int("gathered", len(ids)).
			Msg("Gather stage aborted")
	}

	// Step 5: Fetch and import each object. One bad dataset never aborts
	// the run; failures land in the counters and the object error records.
	for _, id := range ids {
		g.processObject(ctx, h, source, id, run)
	}

	// Step 6: Finalize the run
	status := harvest.RunStatusFinished
	if gatherErr != nil {
		status = harvest.RunStatusErrored
	}
	run.Finish(status, time.Now().UTC())
	if err := g.store.UpdateRun(ctx, run); err != nil {
		return nil, errors.WrapStore(harvest.StageImport, "update run", run.ID, err)
	}

	// Step 7: Assemble the result with the run-level error messages
	result := &RunResult{
		RunID:    run.ID,
		Status:   run.Status,
		Gathered: run.ObjectsGathered,
		Imported: run.ObjectsImported,
		Failed:   run.ObjectsFailed,
		Deleted:  run.ObjectsDeleted,
	}
	gatherErrors, err := g.store.GatherErrors(ctx, run.ID)
	if err != nil {
		log.Warn().Err(err).Msg("Could not list gather errors")
	}
	for _, ge := range gatherErrors {
		result.Errors = append(result.Errors, ge.Message)
	}

	log.Info().
		Str("status", run.Status.String()).
		Int("gathered", result.Gathered).
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Int("deleted", result.Deleted).
		Msg("Harvest run finished")

	return result, nil
}

// processObject runs the fetch and import stages for one gathered object
// and folds the outcome into the run counters.
func (g *gleaner) processObject(ctx context.Context, h harvest.Harvester, source *harvest.Source, id string, run *harvest.Run) {
	log := logging.FromContext(ctx)

	obj, err := g.store.GetObject(ctx, id)
	if err != nil {
		run.ObjectsFailed++
		log.Warn().Err(err).Str("object_id", id).Msg("Could not load harvest object")
		return
	}
	// The source relation is not persisted; stages resolve the owning
	// organization and provenance through it.
	obj.Source = source

	if err := h.Fetch(ctx, obj); err != nil {
		run.ObjectsFailed++
		g.failObject(ctx, obj, harvest.StageFetch, err)
		return
	}

	if err := h.Import(ctx, obj); err != nil {
		// Import records its own object error and failed state
		run.ObjectsFailed++
		return
	}

	// Import leaves StateDeleted behind when the remote catalog asked
	// for removal, StateImported otherwise.
	imported, err := g.store.GetObject(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("object_id", id).Msg("Could not reload harvest object")
		run.ObjectsImported++
		return
	}
	if imported.State == harvest.StateDeleted {
		run.ObjectsDeleted++
		return
	}
	run.ObjectsImported++
}

// failObject records a stage failure against the object and marks it
// failed. Used for stages that do not record their own errors.
func (g *gleaner) failObject(ctx context.Context, obj *harvest.Object, stage string, ferr error) {
	log := logging.FromContext(ctx)

	oe := &harvest.ObjectError{
		ObjectID: obj.ID,
		Message:  ferr.Error(),
		Stage:    stage,
	}
	if err := g.store.SaveObjectError(ctx, oe); err != nil {
		log.Warn().Err(err).Str("object_id", obj.ID).Msg("Could not record object error")
	}
	if err := g.store.SetObjectState(ctx, obj.ID, harvest.StateFailed); err != nil {
		log.Warn().Err(err).Str("object_id", obj.ID).Msg("Could not mark object failed")
	}
	log.Error().
		Err(ferr).
		Str("object_id", obj.ID).
		Str("stage", stage).
		Msg("Harvest stage failed")
}
