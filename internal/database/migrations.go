package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the indexes used by task filtering and summary queries.
// Existing indexes are left alone so it can run on every start.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Participant lookups
		{"tasks", "idx_tasks_user_id", "user_id"},
		{"tasks", "idx_tasks_assigned_to", "assigned_to"},
		{"tasks", "idx_tasks_assigned_by", "assigned_by"},

		// Filtering and ordering
		{"tasks", "idx_tasks_completed", "completed"},
		{"tasks", "idx_tasks_created_at", "created_at"},
		{"tasks", "idx_tasks_project_id", "project_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
