package postgres

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// migrations is the ordered schema history of the harvest store. Entries
// are append-only; editing a released migration breaks deployed databases.
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "20250801_create_harvest_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&runRow{},
					&objectRow{},
					&extraRow{},
					&gatherErrorRow{},
					&objectErrorRow{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"harvest_object_errors",
					"harvest_gather_errors",
					"harvest_object_extras",
					"harvest_objects",
					"harvest_runs",
				)
			},
		},
	}
}

// Migrate applies pending migrations to the harvest database.
func Migrate(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations()).Migrate()
}
