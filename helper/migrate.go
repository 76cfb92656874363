package helper

//nolint:revive
import (
	"errors"
	"fmt"

	"todoapp/config"
	"todoapp/infras/database"
	"todoapp/migrations"

	"github.com/golang-migrate/migrate/v4"
	migrateDatabase "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

// getConnection opens a dedicated pool for the migration run. Closing the returned instance closes it.
func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	conn, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if conn == nil {
		return nil, nil //nolint:nilnil
	}

	var (
		driver migrateDatabase.Driver
		dir    string
	)

	switch conn.Driver {
	case config.DriverPostgres:
		dir = "postgres"
		driver, err = postgres.WithInstance(conn.Write.DB, &postgres.Config{MigrationsTable: cfg.DB.MigrationTable})
	case config.DriverSQLite:
		dir = "sqlite"
		driver, err = sqlite.WithInstance(conn.Write.DB, &sqlite.Config{MigrationsTable: cfg.DB.MigrationTable})
	default:
		err = fmt.Errorf("unsupported migration driver %q", conn.Driver)
	}

	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("error creating migrate driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, dir)
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("error opening embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", source, conn.Driver, driver)
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(cfg *config.Config, action string) error {
	mig, err := getConnection(cfg)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	if mig == nil {
		log.Info().Msg("In-memory store selected, no migrations to run")

		return nil
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDown:
		if err := mig.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	case ActionStepUp:
		if err := mig.Steps(1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error running migrations: %w", err)
		}

		log.Info().Msg("Database migrations completed successfully")

		return nil
	case ActionDrop:
		if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}

		log.Info().Msg("Database migrations rolled back successfully")

		return nil
	}

	return fmt.Errorf("unknown migration action %q", action)
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}
