package database

import (
	"github.com/weiwangfds/collegenotes/internal/logger"
	"gorm.io/gorm"
)

// Migrate creates or updates the notes table and its composite indexes
func Migrate(db *gorm.DB) error {
	logger.Info("running database migration...")

	if err := db.AutoMigrate(&Note{}); err != nil {
		return err
	}
	if err := createNotesIndexes(db); err != nil {
		return err
	}

	logger.Info("database migration completed")
	return nil
}

// createNotesIndexes adds the listing index.
// MySQL has neither partial indexes nor IF NOT EXISTS, so it goes through the migrator.
func createNotesIndexes(db *gorm.DB) error {
	const name = "idx_notes_created_id"

	if db.Dialector.Name() == "mysql" {
		if db.Migrator().HasIndex(&Note{}, name) {
			return nil
		}
		return db.Exec("CREATE INDEX " + name + " ON notes(created_at DESC, id DESC)").Error
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS " + name + " ON notes(created_at DESC, id DESC) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_notes_folder_created ON notes(folder, created_at DESC) WHERE deleted_at IS NULL",
	}
	for _, sql := range indexes {
		if err := db.Exec(sql).Error; err != nil {
			logger.Warnf("failed to create index: %s, error: %v", sql, err)
		}
	}
	return nil
}
