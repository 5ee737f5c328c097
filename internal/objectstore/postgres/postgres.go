// Package postgres provides the durable harvest store. Runs, objects,
// extras, and error records live in dedicated tables; schema changes go
// through versioned migrations.
package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/harvest"
)

// Config holds the connection settings for the harvest database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN renders the config as a libpq connection string.
func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

// Open connects to the harvest database and applies pending migrations.
// gorm's own logger is silenced; callers log operations themselves.
func Open(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.WrapIO("connect", cfg.Database, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Store is the gorm-backed harvest.Store.
type Store struct {
	db *gorm.DB
}

var _ harvest.Store = (*Store)(nil)

// New creates a store on an open database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateRun stores a new run, assigning an ID when the run has none.
func (s *Store) CreateRun(ctx context.Context, run *harvest.Run) error {
	if run == nil {
		return errors.NewValidationError("run", nil, "run cannot be nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(toRunRow(run)).Error; err != nil {
		return errors.WrapStore(harvest.StageGather, "create run", run.ID, err)
	}
	return nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (*harvest.Run, error) {
	var row runRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("run", id)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// UpdateRun replaces a stored run.
func (s *Store) UpdateRun(ctx context.Context, run *harvest.Run) error {
	if run == nil {
		return errors.NewValidationError("run", nil, "run cannot be nil")
	}
	res := s.db.WithContext(ctx).Model(&runRow{}).Where("id = ?", run.ID).
		Updates(map[string]any{
			"status":           string(run.Status),
			"objects_gathered": run.ObjectsGathered,
			"objects_imported": run.ObjectsImported,
			"objects_failed":   run.ObjectsFailed,
			"objects_deleted":  run.ObjectsDeleted,
			"finished_at":      run.FinishedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.NewNotFoundError("run", run.ID)
	}
	return nil
}

// SaveGatherError records a gather failure against its run.
func (s *Store) SaveGatherError(ctx context.Context, ge *harvest.GatherError) error {
	if ge == nil {
		return errors.NewValidationError("gather error", nil, "gather error cannot be nil")
	}
	if ge.ID == "" {
		ge.ID = uuid.NewString()
	}
	if ge.CreatedAt.IsZero() {
		ge.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(toGatherErrorRow(ge)).Error
}

// GatherErrors returns a run's gather errors, oldest first.
func (s *Store) GatherErrors(ctx context.Context, runID string) ([]harvest.GatherError, error) {
	var rows []gatherErrorRow
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]harvest.GatherError, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// CreateObject stores a new harvest object and its extras, assigning an ID
// when the object has none. The Source relation is runtime-only and not
// stored.
func (s *Store) CreateObject(ctx context.Context, obj *harvest.Object) error {
	if obj == nil {
		return errors.NewValidationError("object", nil, "object cannot be nil")
	}
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	if obj.State == "" {
		obj.State = harvest.StateNew
	}
	row := toObjectRow(obj)
	for i := range row.Extras {
		row.Extras[i].ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.WrapStore(harvest.StageGather, "create object", obj.GUID, err)
	}
	return nil
}

// GetObject returns the object with the given ID, extras included.
func (s *Store) GetObject(ctx context.Context, id string) (*harvest.Object, error) {
	var row objectRow
	err := s.db.WithContext(ctx).Preload("Extras").First(&row, "id = ?", id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("harvest object", id)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// FindCurrentByGUID returns the object flagged current for the guid, or
// nil when no object is. The filter is a plain equality on the flag
// column; with several flagged (a crashed flag handover) the newest
// gather wins.
func (s *Store) FindCurrentByGUID(ctx context.Context, guid string) (*harvest.Object, error) {
	var row objectRow
	err := s.db.WithContext(ctx).
		Preload("Extras").
		Where("guid = ? AND current = ?", guid, true).
		Order("gathered_at DESC").
		First(&row).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// MarkCurrent flags the object as the current snapshot for its guid.
func (s *Store) MarkCurrent(ctx context.Context, obj *harvest.Object) error {
	if err := s.setCurrent(ctx, obj, true); err != nil {
		return err
	}
	obj.Current = true
	return nil
}

// MarkNotCurrent clears the object's current flag.
func (s *Store) MarkNotCurrent(ctx context.Context, obj *harvest.Object) error {
	if err := s.setCurrent(ctx, obj, false); err != nil {
		return err
	}
	obj.Current = false
	return nil
}

func (s *Store) setCurrent(ctx context.Context, obj *harvest.Object, current bool) error {
	if obj == nil {
		return errors.NewValidationError("object", nil, "object cannot be nil")
	}
	res := s.db.WithContext(ctx).Model(&objectRow{}).
		Where("id = ?", obj.ID).
		Update("current", current)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.NewNotFoundError("harvest object", obj.ID)
	}
	return nil
}

// SetObjectState moves an object to a new lifecycle state. Reaching
// StateImported stamps imported_at.
func (s *Store) SetObjectState(ctx context.Context, id string, state harvest.State) error {
	if !state.IsValid() {
		return errors.NewValidationError("state", state, "unknown object state")
	}
	updates := map[string]any{"state": string(state)}
	if state == harvest.StateImported {
		updates["imported_at"] = time.Now().UTC()
	}
	res := s.db.WithContext(ctx).Model(&objectRow{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.NewNotFoundError("harvest object", id)
	}
	return nil
}

// SaveObjectError records an import failure against its object.
func (s *Store) SaveObjectError(ctx context.Context, oe *harvest.ObjectError) error {
	if oe == nil {
		return errors.NewValidationError("object error", nil, "object error cannot be nil")
	}
	if oe.ID == "" {
		oe.ID = uuid.NewString()
	}
	if oe.CreatedAt.IsZero() {
		oe.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(toObjectErrorRow(oe)).Error
}

// ObjectErrors returns an object's errors, oldest first.
func (s *Store) ObjectErrors(ctx context.Context, objectID string) ([]harvest.ObjectError, error) {
	var rows []objectErrorRow
	err := s.db.WithContext(ctx).
		Where("object_id = ?", objectID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]harvest.ObjectError, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
