// SPDX-License-Identifier: Apache-2.0

// Package migrations embeds the schema migration files and applies them with
// goose. The DDL is written in the dialect subset shared by PostgreSQL and
// SQLite so one migration set serves both backends.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations. The driver name must be one of the
// database/sql drivers the store opens: "pgx" or "sqlite3".
func Migrate(db *sql.DB, driver string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
