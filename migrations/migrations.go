// Package migrations applies the schema DDL at startup. Statements are
// written to be idempotent, so re-running on an existing database is safe.
package migrations

import (
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

func Apply(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
