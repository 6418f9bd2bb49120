package database

import (
	"database/sql"
	"fmt"
	"os"
)

// Migrate applies the cart schema from schemaPath. The schema uses
// IF NOT EXISTS throughout, so re-running against an existing database is
// a no-op.
func Migrate(db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		schemaPath = DefaultSchemaPath
	}

	b, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", schemaPath, err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema %s: %w", schemaPath, err)
	}
	return nil
}
