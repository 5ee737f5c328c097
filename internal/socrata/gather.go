package socrata

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/logging"
)

// Gather walks the source's catalog and creates one harvest object per
// dataset descriptor, each holding the descriptor's raw catalog bytes.
// It returns the IDs of the objects it created. When a catalog page
// fails the error is recorded against the run and returned along with
// the IDs gathered before the failure.
func (h *Harvester) Gather(ctx context.Context, run *harvest.Run, source *harvest.Source) ([]string, error) {
	ctx = logging.WithSource(ctx, source.ID)
	log := logging.FromContext(ctx)

	domain, err := source.Hostname()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("domain", domain).Int("page_size", h.pageSize).Msg("gathering catalog")

	var ids []string
	pager := NewPager(h.client, domain, h.pageSize)
	for pager.Next(ctx) {
		d := pager.Descriptor()
		guid := d.GUID()
		if guid == "" {
			log.Warn().Str("name", d.Resource.Name).Msg("skipping descriptor without a resource id")
			continue
		}
		log.Debug().Str("name", d.Resource.Name).Str("guid", guid).Msg("creating harvest object")

		obj := &harvest.Object{
			GUID:       guid,
			RunID:      run.ID,
			SourceID:   source.ID,
			Content:    string(d.Raw()),
			State:      harvest.StateNew,
			GatheredAt: time.Now().UTC(),
		}
		if err := h.store.CreateObject(ctx, obj); err != nil {
			log.Error().Err(err).Str("guid", guid).Msg("failed to create harvest object")
			continue
		}
		ids = append(ids, obj.ID)
	}

	if err := pager.Err(); err != nil {
		h.saveGatherError(ctx, run, err)
		return ids, err
	}
	log.Info().Int("count", len(ids)).Msg("gather finished")
	return ids, nil
}

// saveGatherError records a gather failure against the run. Message texts
// keep the catalog API's own wording where one exists.
func (h *Harvester) saveGatherError(ctx context.Context, run *harvest.Run, err error) {
	msg := err.Error()
	var terr *errors.TransportError
	if stderrors.As(err, &terr) && terr.Message != "" {
		msg = terr.Message
	}
	gerr := &harvest.GatherError{
		RunID:     run.ID,
		Message:   "Gather error: " + msg,
		CreatedAt: time.Now().UTC(),
	}
	if serr := h.store.SaveGatherError(ctx, gerr); serr != nil {
		logging.FromContext(ctx).Error().Err(serr).Msg("failed to record gather error")
	}
}
