// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/migrations"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// DB wraps the database/sql pool with the driver name and the error
// classifier matching the backend.
type DB struct {
	*sql.DB
	driver             string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens a connection pool for the configured driver and verifies
// it with a ping. For SQLite the database file is created when missing.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.Driver == DriverSQLite {
		if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
			log.Err(err).Str("func", "NewConnect").Msg("error creating database file")
			return nil, err
		}
	}

	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnect").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnect").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnect").Str("driver", cfg.Driver).Msg("connected to database successfully")

	db := &DB{
		DB:     conn,
		driver: cfg.Driver,
		logger: log,
	}
	if cfg.Driver == DriverPostgres {
		db.errorClassificator = NewPostgresErrorClassifier()
	}

	return db, nil
}

// Migrate applies all pending schema migrations for the connected backend.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// placeholders returns the squirrel placeholder format matching the driver:
// $1-style for PostgreSQL, ?-style for SQLite.
func (db *DB) placeholders() sq.PlaceholderFormat {
	if db.driver == DriverPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// Retryable reports whether err is a transient backend failure worth one
// more attempt. Always false for SQLite, which has no classifier.
func (db *DB) Retryable(err error) bool {
	return db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
