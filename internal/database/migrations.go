package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds indexes on hot lookup columns: natural keys used by the
// CSV import and the key columns used by login and account lifecycle flows.
// No-op on non-postgres databases.
func AddIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"users", "idx_users_email", "email"},
		{"users", "idx_users_activation_key", "activation_key"},
		{"users", "idx_users_github_user_id", "github_user_id"},
		{"users", "idx_users_github_username", "github_username"},

		{"client_orgs", "idx_client_orgs_name", "name"},
		{"projects", "idx_projects_name", "name"},
		{"projects", "idx_projects_is_published", "is_published"},

		{"password_reset_requests", "idx_reset_requests_key", "key"},
		{"password_reset_requests", "idx_reset_requests_user_id", "user_id"},
		{"auth_tokens", "idx_auth_tokens_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error

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
