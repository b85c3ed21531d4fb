package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Membership ledger lookups
		{"workspace_memberships", "idx_memberships_workspace_status", "workspace_id, status"},
		{"workspace_memberships", "idx_memberships_email_status", "email, status"},
		{"workspace_memberships", "idx_memberships_user_id", "user_id"},
		{"workspace_memberships", "idx_memberships_invited_at", "invited_at"},

		// Tenant-scoped entity filters
		{"companies", "idx_companies_workspace_id", "workspace_id"},
		{"people", "idx_people_workspace_id", "workspace_id"},
		{"people", "idx_people_company_id", "company_id"},
		{"conversations", "idx_conversations_workspace_id", "workspace_id"},
		{"conversations", "idx_conversations_happened_at", "happened_at"},
		{"conversation_participants", "idx_participants_person_id", "person_id"},
		{"tags", "idx_tags_workspace_id", "workspace_id"},
		{"reminders", "idx_reminders_workspace_id", "workspace_id"},
		{"reminders", "idx_reminders_due_at", "due_at"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
