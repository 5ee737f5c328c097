package socrata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repomemory "github.com/openfield/gleaner/internal/repository/memory"
	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
	"github.com/openfield/gleaner/pkg/logging"
	"github.com/openfield/gleaner/pkg/record"
)

// seedSourceRecord registers the harvest source's own dataset so imports
// can resolve the owning organization.
func seedSourceRecord(repo *repomemory.Repository, source *harvest.Source, ownerOrg string) {
	repo.Seed(&record.Dataset{
		ID:       source.ID,
		Name:     "example-open-data",
		Title:    source.Title,
		OwnerOrg: ownerOrg,
		State:    record.StateActive,
	})
}

// gatherObject persists a harvest object the way the gather stage would
// and attaches the source relation for the import stage.
func gatherObject(t *testing.T, store harvest.ObjectStore, run *harvest.Run, source *harvest.Source, guid, content string) *harvest.Object {
	t.Helper()
	obj := &harvest.Object{
		GUID:       guid,
		RunID:      run.ID,
		SourceID:   source.ID,
		Content:    content,
		State:      harvest.StateNew,
		GatheredAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateObject(context.Background(), obj))
	obj.Source = source
	return obj
}

func descriptorContent(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "descriptor.json"))
	require.NoError(t, err)
	return string(data)
}

func TestImportCreatesDataset(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")
	run := testRun(t, store, source.ID)

	obj := gatherObject(t, store, run, source, "abcd-1234", descriptorContent(t))
	require.NoError(t, h.Import(ctx, obj))

	matches, err := repo.FindByIdentifier(ctx, "abcd-1234")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	ds := matches[0]
	assert.Equal(t, "Test Set", ds.Title)
	assert.Equal(t, "test-set", ds.Name)
	assert.Equal(t, "City of Example", ds.Author)
	assert.Equal(t, "org-1", ds.OwnerOrg)
	assert.Equal(t, record.StateActive, ds.State)

	stored, err := store.GetObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.True(t, stored.Current)
	assert.Equal(t, harvest.StateImported, stored.State)
	require.NotNil(t, stored.ImportedAt)
}

func TestImportSecondRunUpdates(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")

	content := func(title string) string {
		return fmt.Sprintf(
			`{"resource": {"id": "abcd-1234", "name": %q, "attribution": "City of Example"}, `+
				`"permalink": "https://data.example.org/d/abcd-1234"}`, title)
	}

	run1 := testRun(t, store, source.ID)
	obj1 := gatherObject(t, store, run1, source, "abcd-1234", content("Test Set"))
	require.NoError(t, h.Import(ctx, obj1))

	matches, err := repo.FindByIdentifier(ctx, "abcd-1234")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	createdID := matches[0].ID

	run2 := testRun(t, store, source.ID)
	obj2 := gatherObject(t, store, run2, source, "abcd-1234", content("Test Set Revised"))
	require.NoError(t, h.Import(ctx, obj2))

	// Still one dataset, updated in place under the same identity.
	matches, err = repo.FindByIdentifier(ctx, "abcd-1234")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, createdID, matches[0].ID)
	assert.Equal(t, "Test Set Revised", matches[0].Title)

	// The current flag moved from the first snapshot to the second.
	stored1, err := store.GetObject(ctx, obj1.ID)
	require.NoError(t, err)
	stored2, err := store.GetObject(ctx, obj2.ID)
	require.NoError(t, err)
	assert.False(t, stored1.Current)
	assert.True(t, stored2.Current)

	current, err := store.FindCurrentByGUID(ctx, "abcd-1234")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, obj2.ID, current.ID)
}

func TestImportNilObject(t *testing.T) {
	h, _, _ := newTestHarvester("http://localhost", 0)

	err := h.Import(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsNoObject(err))
}

func TestImportEmptyContent(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")
	run := testRun(t, store, source.ID)

	obj := gatherObject(t, store, run, source, "abcd-1234", "")
	err := h.Import(ctx, obj)
	require.Error(t, err)
	assert.True(t, errors.IsEmptyContent(err))

	objectErrors, oerr := store.ObjectErrors(ctx, obj.ID)
	require.NoError(t, oerr)
	require.Len(t, objectErrors, 1)
	assert.Equal(t, fmt.Sprintf("Empty content for object %s", obj.ID), objectErrors[0].Message)
	assert.Equal(t, harvest.StageImport, objectErrors[0].Stage)

	stored, serr := store.GetObject(ctx, obj.ID)
	require.NoError(t, serr)
	assert.Equal(t, harvest.StateFailed, stored.State)
	assert.False(t, stored.Current)
}

func TestImportMalformedDescriptor(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")
	run := testRun(t, store, source.ID)

	// Attribution is required; its absence fails the object, not the run.
	obj := gatherObject(t, store, run, source, "abcd-1234",
		`{"resource": {"id": "abcd-1234", "name": "Test Set"}}`)
	err := h.Import(ctx, obj)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	objectErrors, oerr := store.ObjectErrors(ctx, obj.ID)
	require.NoError(t, oerr)
	require.Len(t, objectErrors, 1)
	assert.Contains(t, objectErrors[0].Message, "resource.attribution")

	stored, serr := store.GetObject(ctx, obj.ID)
	require.NoError(t, serr)
	assert.Equal(t, harvest.StateFailed, stored.State)
}

func TestImportDeleteStatus(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")

	run1 := testRun(t, store, source.ID)
	obj1 := gatherObject(t, store, run1, source, "abcd-1234", descriptorContent(t))
	require.NoError(t, h.Import(ctx, obj1))

	// The removal marker needs no content; the delete path runs before
	// the empty-content check.
	run2 := testRun(t, store, source.ID)
	obj2 := &harvest.Object{
		GUID:       "abcd-1234",
		RunID:      run2.ID,
		SourceID:   source.ID,
		State:      harvest.StateNew,
		Extras:     []harvest.Extra{{Key: "status", Value: "delete"}},
		GatheredAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateObject(ctx, obj2))
	obj2.Source = source

	require.NoError(t, h.Import(ctx, obj2))

	matches, err := repo.FindByIdentifier(ctx, "abcd-1234")
	require.NoError(t, err)
	assert.Empty(t, matches)

	stored, err := store.GetObject(ctx, obj2.ID)
	require.NoError(t, err)
	assert.Equal(t, harvest.StateDeleted, stored.State)
}

func TestImportDeleteStatusWithoutDataset(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")
	run := testRun(t, store, source.ID)

	obj := gatherObject(t, store, run, source, "zzzz-0000", "")
	obj.Extras = []harvest.Extra{{Key: "status", Value: "delete"}}

	require.NoError(t, h.Import(ctx, obj))

	stored, err := store.GetObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, harvest.StateDeleted, stored.State)
}

func TestImportDuplicateIdentifierUsesFirstMatch(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")

	first := &record.Dataset{Name: "test-set", Title: "Original", Identifier: "abcd-1234"}
	second := &record.Dataset{Name: "test-set-copy", Title: "Copy", Identifier: "abcd-1234"}
	repo.Seed(first, second)

	tl := logging.NewTestLogger(t)
	ctx = logging.WithLogger(ctx, tl.Logger)

	run := testRun(t, store, source.ID)
	obj := gatherObject(t, store, run, source, "abcd-1234", descriptorContent(t))
	require.NoError(t, h.Import(ctx, obj))

	tl.AssertContains(t, "Found more than one dataset with the same guid: abcd-1234")

	updated, err := repo.Show(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Set", updated.Title)

	untouched, err := repo.Show(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copy", untouched.Title)
}

func TestImportCreateFailure(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")

	// Occupy the munged name so the create is rejected.
	repo.Seed(&record.Dataset{Name: "test-set", Title: "Occupied", Identifier: "zzzz-9999"})

	run := testRun(t, store, source.ID)
	obj := gatherObject(t, store, run, source, "abcd-1234", descriptorContent(t))

	err := h.Import(ctx, obj)
	require.Error(t, err)

	var serr *errors.StoreOperationError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create", serr.Operation)

	objectErrors, oerr := store.ObjectErrors(ctx, obj.ID)
	require.NoError(t, oerr)
	require.Len(t, objectErrors, 1)
	assert.Contains(t, objectErrors[0].Message, fmt.Sprintf("Error creating package for %s:", obj.ID))

	stored, gerr := store.GetObject(ctx, obj.ID)
	require.NoError(t, gerr)
	assert.Equal(t, harvest.StateFailed, stored.State)
}

func TestImportMissingSourceRecord(t *testing.T) {
	h, store, _ := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	run := testRun(t, store, source.ID)

	obj := gatherObject(t, store, run, source, "abcd-1234", descriptorContent(t))
	err := h.Import(ctx, obj)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	stored, serr := store.GetObject(ctx, obj.ID)
	require.NoError(t, serr)
	assert.Equal(t, harvest.StateFailed, stored.State)
}

func TestImportWithoutSourceRelation(t *testing.T) {
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")
	run := testRun(t, store, source.ID)

	obj := gatherObject(t, store, run, source, "abcd-1234", descriptorContent(t))
	obj.Source = nil

	err := h.Import(ctx, obj)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestImportReimportSameObject(t *testing.T) {
	// Importing the same object twice must not clear its own current flag.
	h, store, repo := newTestHarvester("http://localhost", 0)
	ctx := context.Background()
	source := testSource()
	seedSourceRecord(repo, source, "org-1")
	run := testRun(t, store, source.ID)

	obj := gatherObject(t, store, run, source, "abcd-1234", descriptorContent(t))
	require.NoError(t, h.Import(ctx, obj))
	require.NoError(t, h.Import(ctx, obj))

	stored, err := store.GetObject(ctx, obj.ID)
	require.NoError(t, err)
	assert.True(t, stored.Current)

	matches, err := repo.FindByIdentifier(ctx, "abcd-1234")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
