package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"todoapp/config"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
)

const (
	sqliteMaxRetries   = 5
	sqliteInitialWait  = 100 * time.Millisecond
	sqliteMaxOpenConns = 1
	sqliteBusyTimeout  = 5000 // milliseconds
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)

	// the built-in lower only folds ASCII; search must fold case like strings.ToLower does
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}

// NewSQLite opens (creating if needed) the database file at path with WAL journaling.
func NewSQLite(path string) (*Connection, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_time_format=sqlite", path, sqliteBusyTimeout)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single writer avoids SQLITE_BUSY between the pool's connections
	db.SetMaxOpenConns(sqliteMaxOpenConns)
	db.SetConnMaxLifetime(0)

	if err := pingWithRetry(context.Background(), db); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("path", path).Msg("Connected to database")

	return &Connection{
		Driver: config.DriverSQLite,
		Read:   db,
		Write:  db,
	}, nil
}

// pingWithRetry attempts to ping the database with exponential backoff.
func pingWithRetry(ctx context.Context, db *sqlx.DB) error {
	wait := sqliteInitialWait

	var err error
	for i := range sqliteMaxRetries {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}

		if i < sqliteMaxRetries-1 {
			time.Sleep(wait)
			wait *= 2
		}
	}

	return fmt.Errorf("failed to ping database after %d retries: %w", sqliteMaxRetries, err)
}
