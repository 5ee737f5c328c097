package socrata

import (
	"context"
	"fmt"
	"time"

	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/logging"
	"github.com/openfield/gleaner/pkg/record"
)

// Extras recognized on harvest objects during import.
const (
	statusExtraKey = "status"
	statusDelete   = "delete"
)

// Import reconciles one harvest object into the record repository: the
// object becomes the current snapshot for its guid and its descriptor is
// created or updated as a dataset, matched on the identifier extra. An
// object carrying a status=delete extra removes the dataset instead.
// Failures are recorded as object errors and returned.
func (h *Harvester) Import(ctx context.Context, obj *harvest.Object) error {
	log := logging.FromContext(ctx)
	log.Debug().Msg("import stage")

	if obj == nil {
		log.Error().Msg("No harvest object received")
		return errors.ErrNoObject
	}

	ctx = logging.WithGUID(ctx, obj.GUID)
	log = logging.FromContext(ctx)

	if status, ok := obj.Extra(statusExtraKey); ok && status == statusDelete {
		return h.deleteDataset(ctx, obj)
	}

	if obj.Content == "" {
		return h.failObject(ctx, obj, errors.ErrEmptyContent,
			fmt.Sprintf("Empty content for object %s", obj.ID))
	}

	// Hand the current flag over from the previous snapshot. The two
	// writes are not atomic: a crash in between leaves the guid without a
	// current object until the next run, and concurrent imports of the
	// same guid can leave two objects flagged. Runs import each guid from
	// a single worker, so the window is accepted rather than locked.
	prev, err := h.store.FindCurrentByGUID(ctx, obj.GUID)
	if err != nil {
		return h.failObject(ctx, obj,
			errors.WrapStore(harvest.StageImport, "find current object", obj.GUID, err), "")
	}
	if prev != nil && prev.ID != obj.ID {
		if err := h.store.MarkNotCurrent(ctx, prev); err != nil {
			return h.failObject(ctx, obj,
				errors.WrapStore(harvest.StageImport, "clear current flag", obj.GUID, err), "")
		}
	}
	if err := h.store.MarkCurrent(ctx, obj); err != nil {
		return h.failObject(ctx, obj,
			errors.WrapStore(harvest.StageImport, "set current flag", obj.GUID, err), "")
	}

	d, err := ParseDescriptor([]byte(obj.Content))
	if err != nil {
		return h.failObject(ctx, obj, err, "")
	}

	existing, err := h.findExisting(ctx, obj.GUID)
	if err != nil {
		return h.failObject(ctx, obj,
			errors.WrapStore(harvest.StageImport, "show", obj.GUID, err), "")
	}

	source := obj.Source
	if source == nil {
		return h.failObject(ctx, obj,
			errors.NewValidationError("source", obj.SourceID, "harvest object has no source attached"), "")
	}

	localOrg, err := h.localOrg(ctx, source)
	if err != nil {
		return h.failObject(ctx, obj,
			errors.WrapStore(harvest.StageImport, "show", source.ID, err), "")
	}

	ds, err := BuildDataset(d, source, localOrg)
	if err != nil {
		return h.failObject(ctx, obj, err, "")
	}

	if existing != nil {
		log.Debug().Msg("existing dataset")
		ds.ID = existing.ID
		if _, err := h.repo.Update(ctx, ds); err != nil {
			return h.failObject(ctx, obj,
				errors.WrapStore(harvest.StageImport, "update", obj.GUID, err),
				fmt.Sprintf("Error updating package for %s: %v", obj.ID, err))
		}
	} else {
		log.Debug().Msg("new dataset")
		if _, err := h.repo.Create(ctx, ds); err != nil {
			return h.failObject(ctx, obj,
				errors.WrapStore(harvest.StageImport, "create", obj.GUID, err),
				fmt.Sprintf("Error creating package for %s: %v", obj.ID, err))
		}
	}

	if err := h.store.SetObjectState(ctx, obj.ID, harvest.StateImported); err != nil {
		log.Error().Err(err).Msg("failed to mark object imported")
		return errors.WrapStore(harvest.StageImport, "update object state", obj.GUID, err)
	}
	log.Info().Str("name", ds.Name).Msg("dataset imported")
	return nil
}

// deleteDataset removes the dataset matching the object's guid. A missing
// dataset is not an error: the removal request already holds.
func (h *Harvester) deleteDataset(ctx context.Context, obj *harvest.Object) error {
	log := logging.FromContext(ctx)

	existing, err := h.findExisting(ctx, obj.GUID)
	if err != nil {
		return h.failObject(ctx, obj,
			errors.WrapStore(harvest.StageImport, "show", obj.GUID, err), "")
	}
	if existing == nil {
		log.Warn().Msg("no dataset to delete")
	} else {
		if err := h.repo.Delete(ctx, existing.ID); err != nil {
			return h.failObject(ctx, obj,
				errors.WrapStore(harvest.StageImport, "delete", obj.GUID, err),
				fmt.Sprintf("Error deleting package for %s: %v", obj.ID, err))
		}
		log.Info().Msgf("Deleted package with id %s", existing.ID)
	}

	if err := h.store.SetObjectState(ctx, obj.ID, harvest.StateDeleted); err != nil {
		log.Error().Err(err).Msg("failed to mark object deleted")
		return errors.WrapStore(harvest.StageImport, "update object state", obj.GUID, err)
	}
	return nil
}

// findExisting looks up the active dataset whose identifier extra matches
// the guid. More than one match is a store integrity anomaly: it is logged
// and the first match wins.
func (h *Harvester) findExisting(ctx context.Context, guid string) (*record.Dataset, error) {
	matches, err := h.repo.FindByIdentifier(ctx, guid)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		anomaly := errors.NewStoreAnomalyError(guid, len(matches), "using first match")
		logging.FromContext(ctx).Error().Err(anomaly).
			Msgf("Found more than one dataset with the same guid: %s", guid)
	}
	return matches[0], nil
}

// localOrg resolves the organization that owns the harvest source's own
// dataset record; harvested datasets are filed under the same organization.
func (h *Harvester) localOrg(ctx context.Context, source *harvest.Source) (string, error) {
	src, err := h.repo.Show(ctx, source.ID)
	if err != nil {
		return "", err
	}
	return src.OwnerOrg, nil
}

// failObject records an import failure against the object, moves it to the
// failed state, and hands the error back to the caller. An empty message
// falls back to the error text.
func (h *Harvester) failObject(ctx context.Context, obj *harvest.Object, ferr error, message string) error {
	log := logging.FromContext(ctx)
	if message == "" {
		message = ferr.Error()
	}

	oe := &harvest.ObjectError{
		ObjectID:  obj.ID,
		Message:   message,
		Stage:     harvest.StageImport,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.SaveObjectError(ctx, oe); err != nil {
		log.Error().Err(err).Msg("failed to record object error")
	}
	if err := h.store.SetObjectState(ctx, obj.ID, harvest.StateFailed); err != nil {
		log.Error().Err(err).Msg("failed to mark object failed")
	}
	log.Error().Err(ferr).Msg("import failed")
	return ferr
}
