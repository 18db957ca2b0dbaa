package database

import (
	"database/sql"
	_ "embed"

	"github.com/rotisserie/eris"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return eris.Wrap(err, "database: apply schema")
	}
	return nil
}
