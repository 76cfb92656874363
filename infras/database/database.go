package database

import (
	"context"
	"errors"
	"fmt"

	"todoapp/config"

	"github.com/jmoiron/sqlx"
)

// Connection holds the read and write pools of a SQL backend. Both point at the same pool for SQLite.
type Connection struct {
	Driver string
	Read   *sqlx.DB
	Write  *sqlx.DB
}

// New opens the SQL backend selected in configuration. It returns nil for the memory driver.
func New(cfg *config.Config) (*Connection, error) {
	driver, err := cfg.StoreDriver()
	if err != nil {
		return nil, fmt.Errorf("resolving store driver: %w", err)
	}

	switch driver {
	case config.DriverPostgres:
		return NewPostgres(cfg)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath())
	default:
		return nil, nil //nolint:nilnil
	}
}

func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging %s write pool: %w", c.Driver, err)
	}

	if c.Read != c.Write {
		if err := c.Read.PingContext(ctx); err != nil {
			return fmt.Errorf("pinging %s read pool: %w", c.Driver, err)
		}
	}

	return nil
}

func (c *Connection) Close() error {
	var errs []error

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	return errors.Join(errs...)
}

// WithTx executes a function within a transaction on the write pool.
// If the function returns an error, the transaction is rolled back.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
