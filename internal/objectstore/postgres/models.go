package postgres

import (
	"time"

	"github.com/openfield/gleaner/pkg/harvest"
)

// runRow maps a harvest run onto the harvest_runs table.
type runRow struct {
	ID              string     `gorm:"column:id;primaryKey"`
	SourceID        string     `gorm:"column:source_id;not null;index"`
	Status          string     `gorm:"column:status;not null"`
	ObjectsGathered int        `gorm:"column:objects_gathered;not null;default:0"`
	ObjectsImported int        `gorm:"column:objects_imported;not null;default:0"`
	ObjectsFailed   int        `gorm:"column:objects_failed;not null;default:0"`
	ObjectsDeleted  int        `gorm:"column:objects_deleted;not null;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null"`
	FinishedAt      *time.Time `gorm:"column:finished_at"`
}

// TableName returns the table name for harvest runs.
func (runRow) TableName() string {
	return "harvest_runs"
}

// objectRow maps a harvest object onto the harvest_objects table. The
// guid+current pair is indexed because the import stage resolves the
// current snapshot by guid on every object.
type objectRow struct {
	ID         string     `gorm:"column:id;primaryKey"`
	GUID       string     `gorm:"column:guid;not null;index:idx_harvest_objects_guid_current"`
	RunID      string     `gorm:"column:run_id;not null;index"`
	SourceID   string     `gorm:"column:source_id;not null"`
	Content    string     `gorm:"column:content"`
	Current    bool       `gorm:"column:current;not null;default:false;index:idx_harvest_objects_guid_current"`
	State      string     `gorm:"column:state;not null"`
	GatheredAt time.Time  `gorm:"column:gathered_at;not null"`
	ImportedAt *time.Time `gorm:"column:imported_at"`
	Extras     []extraRow `gorm:"foreignKey:ObjectID;references:ID"`
}

// TableName returns the table name for harvest objects.
func (objectRow) TableName() string {
	return "harvest_objects"
}

// extraRow maps one auxiliary key/value onto the harvest_object_extras table.
type extraRow struct {
	ID       string `gorm:"column:id;primaryKey"`
	ObjectID string `gorm:"column:object_id;not null;index"`
	Key      string `gorm:"column:key;not null"`
	Value    string `gorm:"column:value"`
}

// TableName returns the table name for harvest object extras.
func (extraRow) TableName() string {
	return "harvest_object_extras"
}

// gatherErrorRow maps a gather error onto the harvest_gather_errors table.
type gatherErrorRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	RunID     string    `gorm:"column:run_id;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName returns the table name for gather errors.
func (gatherErrorRow) TableName() string {
	return "harvest_gather_errors"
}

// objectErrorRow maps an object error onto the harvest_object_errors table.
type objectErrorRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ObjectID  string    `gorm:"column:object_id;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	Stage     string    `gorm:"column:stage;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName returns the table name for object errors.
func (objectErrorRow) TableName() string {
	return "harvest_object_errors"
}

func toRunRow(run *harvest.Run) *runRow {
	return &runRow{
		ID:              run.ID,
		SourceID:        run.SourceID,
		Status:          string(run.Status),
		ObjectsGathered: run.ObjectsGathered,
		ObjectsImported: run.ObjectsImported,
		ObjectsFailed:   run.ObjectsFailed,
		ObjectsDeleted:  run.ObjectsDeleted,
		CreatedAt:       run.CreatedAt,
		FinishedAt:      run.FinishedAt,
	}
}

func (r *runRow) toDomain() *harvest.Run {
	return &harvest.Run{
		ID:              r.ID,
		SourceID:        r.SourceID,
		Status:          harvest.RunStatus(r.Status),
		ObjectsGathered: r.ObjectsGathered,
		ObjectsImported: r.ObjectsImported,
		ObjectsFailed:   r.ObjectsFailed,
		ObjectsDeleted:  r.ObjectsDeleted,
		CreatedAt:       r.CreatedAt,
		FinishedAt:      r.FinishedAt,
	}
}

func toObjectRow(obj *harvest.Object) *objectRow {
	row := &objectRow{
		ID:         obj.ID,
		GUID:       obj.GUID,
		RunID:      obj.RunID,
		SourceID:   obj.SourceID,
		Content:    obj.Content,
		Current:    obj.Current,
		State:      string(obj.State),
		GatheredAt: obj.GatheredAt,
		ImportedAt: obj.ImportedAt,
	}
	for _, e := range obj.Extras {
		row.Extras = append(row.Extras, extraRow{ObjectID: obj.ID, Key: e.Key, Value: e.Value})
	}
	return row
}

func (r *objectRow) toDomain() *harvest.Object {
	obj := &harvest.Object{
		ID:         r.ID,
		GUID:       r.GUID,
		RunID:      r.RunID,
		SourceID:   r.SourceID,
		Content:    r.Content,
		Current:    r.Current,
		State:      harvest.State(r.State),
		GatheredAt: r.GatheredAt,
		ImportedAt: r.ImportedAt,
	}
	for _, e := range r.Extras {
		obj.Extras = append(obj.Extras, harvest.Extra{Key: e.Key, Value: e.Value})
	}
	return obj
}

func toGatherErrorRow(ge *harvest.GatherError) *gatherErrorRow {
	return &gatherErrorRow{
		ID:        ge.ID,
		RunID:     ge.RunID,
		Message:   ge.Message,
		CreatedAt: ge.CreatedAt,
	}
}

func (r *gatherErrorRow) toDomain() harvest.GatherError {
	return harvest.GatherError{
		ID:        r.ID,
		RunID:     r.RunID,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}

func toObjectErrorRow(oe *harvest.ObjectError) *objectErrorRow {
	return &objectErrorRow{
		ID:        oe.ID,
		ObjectID:  oe.ObjectID,
		Message:   oe.Message,
		Stage:     oe.Stage,
		CreatedAt: oe.CreatedAt,
	}
}

func (r *objectErrorRow) toDomain() harvest.ObjectError {
	return harvest.ObjectError{
		ID:        r.ID,
		ObjectID:  r.ObjectID,
		Message:   r.Message,
		Stage:     r.Stage,
		CreatedAt: r.CreatedAt,
	}
}
