// Package memory provides an in-memory harvest store. It backs tests and
// single-process runs; anything that should survive a restart belongs in
// the postgres store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
)

// Store is a concurrency-safe in-memory harvest.Store. Values are copied
// on the way in and out so callers never share memory with the store.
type Store struct {
	mu           sync.RWMutex
	runs         map[string]*harvest.Run
	objects      map[string]*harvest.Object
	objectOrder  []string
	gatherErrors map[string][]harvest.GatherError
	objectErrors map[string][]harvest.ObjectError
}

var _ harvest.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		runs:         make(map[string]*harvest.Run),
		objects:      make(map[string]*harvest.Object),
		gatherErrors: make(map[string][]harvest.GatherError),
		objectErrors: make(map[string][]harvest.ObjectError),
	}
}

// CreateRun stores a new run, assigning an ID when the run has none.
func (s *Store) CreateRun(_ context.Context, run *harvest.Run) error {
	if run == nil {
		return errors.NewValidationError("run", nil, "run cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if _, exists := s.runs[run.ID]; exists {
		return errors.ErrAlreadyExists
	}
	c := *run
	s.runs[run.ID] = &c
	return nil
}

// GetRun returns a copy of the run with the given ID.
func (s *Store) GetRun(_ context.Context, id string) (*harvest.Run, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("run", id)
	}
	c := *run
	return &c, nil
}

// UpdateRun replaces a stored run.
func (s *Store) UpdateRun(_ context.Context, run *harvest.Run) error {
	if run == nil {
		return errors.NewValidationError("run", nil, "run cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		return errors.NewNotFoundError("run", run.ID)
	}
	c := *run
	s.runs[run.ID] = &c
	return nil
}

// SaveGatherError appends a gather error to its run's error list.
func (s *Store) SaveGatherError(_ context.Context, ge *harvest.GatherError) error {
	if ge == nil {
		return errors.NewValidationError("gather error", nil, "gather error cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ge.ID == "" {
		ge.ID = uuid.NewString()
	}
	if ge.CreatedAt.IsZero() {
		ge.CreatedAt = time.Now().UTC()
	}
	s.gatherErrors[ge.RunID] = append(s.gatherErrors[ge.RunID], *ge)
	return nil
}

// GatherErrors returns the gather errors recorded against a run, oldest first.
func (s *Store) GatherErrors(_ context.Context, runID string) ([]harvest.GatherError, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]harvest.GatherError, len(s.gatherErrors[runID]))
	copy(out, s.gatherErrors[runID])
	return out, nil
}

// CreateObject stores a new harvest object, assigning an ID when the
// object has none. The Source relation is runtime-only and not stored.
func (s *Store) CreateObject(_ context.Context, obj *harvest.Object) error {
	if obj == nil {
		return errors.NewValidationError("object", nil, "object cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	if _, exists := s.objects[obj.ID]; exists {
		return errors.ErrAlreadyExists
	}
	if obj.State == "" {
		obj.State = harvest.StateNew
	}
	s.objects[obj.ID] = cloneObject(obj)
	s.objectOrder = append(s.objectOrder, obj.ID)
	return nil
}

// GetObject returns a copy of the object with the given ID.
func (s *Store) GetObject(_ context.Context, id string) (*harvest.Object, error) {
	s.mu.RLock()
	obj, ok := s.objects[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("harvest object", id)
	}
	return cloneObject(obj), nil
}

// FindCurrentByGUID returns the object flagged current for the guid, or
// nil when no object is. The filter is a plain equality on the flag; with
// several flagged (a crashed flag handover) the newest gather wins.
func (s *Store) FindCurrentByGUID(_ context.Context, guid string) (*harvest.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*harvest.Object
	for _, obj := range s.objects {
		if obj.GUID == guid && obj.Current {
			matches = append(matches, obj)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].GatheredAt.After(matches[j].GatheredAt)
	})
	return cloneObject(matches[0]), nil
}

// MarkCurrent flags the object as the current snapshot for its guid.
func (s *Store) MarkCurrent(_ context.Context, obj *harvest.Object) error {
	if err := s.setCurrent(obj, true); err != nil {
		return err
	}
	obj.Current = true
	return nil
}

// MarkNotCurrent clears the object's current flag.
func (s *Store) MarkNotCurrent(_ context.Context, obj *harvest.Object) error {
	if err := s.setCurrent(obj, false); err != nil {
		return err
	}
	obj.Current = false
	return nil
}

func (s *Store) setCurrent(obj *harvest.Object, current bool) error {
	if obj == nil {
		return errors.NewValidationError("object", nil, "object cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.objects[obj.ID]
	if !ok {
		return errors.NewNotFoundError("harvest object", obj.ID)
	}
	stored.Current = current
	return nil
}

// SetObjectState moves an object to a new lifecycle state. Reaching
// StateImported stamps ImportedAt.
func (s *Store) SetObjectState(_ context.Context, id string, state harvest.State) error {
	if !state.IsValid() {
		return errors.NewValidationError("state", state, "unknown object state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.objects[id]
	if !ok {
		return errors.NewNotFoundError("harvest object", id)
	}
	stored.State = state
	if state == harvest.StateImported {
		now := time.Now().UTC()
		stored.ImportedAt = &now
	}
	return nil
}

// SaveObjectError appends an import failure record to the object's error list.
func (s *Store) SaveObjectError(_ context.Context, oe *harvest.ObjectError) error {
	if oe == nil {
		return errors.NewValidationError("object error", nil, "object error cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if oe.ID == "" {
		oe.ID = uuid.NewString()
	}
	if oe.CreatedAt.IsZero() {
		oe.CreatedAt = time.Now().UTC()
	}
	s.objectErrors[oe.ObjectID] = append(s.objectErrors[oe.ObjectID], *oe)
	return nil
}

// ObjectErrors returns the errors recorded against an object, oldest first.
func (s *Store) ObjectErrors(_ context.Context, objectID string) ([]harvest.ObjectError, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]harvest.ObjectError, len(s.objectErrors[objectID]))
	copy(out, s.objectErrors[objectID])
	return out, nil
}

// ObjectsByRun returns copies of the run's objects in gather order.
func (s *Store) ObjectsByRun(_ context.Context, runID string) ([]*harvest.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*harvest.Object
	for _, id := range s.objectOrder {
		if obj := s.objects[id]; obj.RunID == runID {
			out = append(out, cloneObject(obj))
		}
	}
	return out, nil
}

// cloneObject copies an object and its extras. The Source relation is
// deliberately dropped: it is attached at runtime, never persisted.
func cloneObject(obj *harvest.Object) *harvest.Object {
	c := *obj
	c.Source = nil
	if obj.Extras != nil {
		c.Extras = make([]harvest.Extra, len(obj.Extras))
		copy(c.Extras, obj.Extras)
	}
	if obj.ImportedAt != nil {
		t := *obj.ImportedAt
		c.ImportedAt = &t
	}
	return &c
}
