package database

import (
	"database/sql"
	"fmt"
)

// tableDefinitions holds every statement needed to bring a database up to
// the current schema. Statements are idempotent and run in order.
//
// The unique index on (email, phone, linked_id) is partial: soft-deleted
// rows do not participate, so a pair can be re-observed after an operator
// deletion. NULLs are distinct under Postgres defaults, which the
// reconciler relies on to let duplicate primaries exist transiently between
// a racing create and the merge that collapses them.
var tableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(320),
		phone VARCHAR(20),
		linked_id BIGINT REFERENCES contacts(id),
		link_precedence VARCHAR(10) NOT NULL CHECK (link_precedence IN ('primary', 'secondary')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at TIMESTAMP,
		CHECK (email IS NOT NULL OR phone IS NOT NULL)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_linked_id ON contacts(linked_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_identity
		ON contacts(email, phone, linked_id) WHERE deleted_at IS NULL`,
}

// InitializeDatabase creates all necessary database tables if they don't exist
func InitializeDatabase(db *sql.DB) error {
	for _, query := range tableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// CleanDatabase drops the contacts table. Used by integration tests only.
func CleanDatabase(db *sql.DB) error {
	if _, err := db.Exec("DROP TABLE IF EXISTS contacts CASCADE"); err != nil {
		return fmt.Errorf("failed to drop contacts table: %w", err)
	}
	return nil
}
