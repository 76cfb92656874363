package database

//nolint:revive
import (
	"errors"
	"fmt"
	"time"

	"todoapp/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

var errNoConnection = errors.New("could not connect to database")

func NewPostgres(cfg *config.Config) (*Connection, error) {
	write, err := CreatePostgresConnection("write", cfg.PostgresDSN(cfg.DB.Postgres.Write), cfg.DB.MaxRetry, cfg.DB.RetryWaitTime)
	if err != nil {
		return nil, err
	}

	read := write
	if cfg.DB.URL == "" && cfg.DB.Postgres.Read != cfg.DB.Postgres.Write {
		read, err = CreatePostgresConnection("read", cfg.PostgresDSN(cfg.DB.Postgres.Read), cfg.DB.MaxRetry, cfg.DB.RetryWaitTime)
		if err != nil {
			_ = write.Close()

			return nil, err
		}
	}

	return &Connection{
		Driver: config.DriverPostgres,
		Read:   read,
		Write:  write,
	}, nil
}

// CreatePostgresConnection creates a database connection, retrying maxRetry times.
func CreatePostgresConnection(name, dsn string, maxRetry, waitTime int) (*sqlx.DB, error) {
	attempts := max(maxRetry, 1)

	var lastErr error

	for retry := range attempts {
		sqlDB, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB, nil
		}

		lastErr = err

		log.
			Error().
			Err(err).
			Str("name", name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		if retry < attempts-1 {
			time.Sleep(time.Duration(waitTime) * time.Second)
		}
	}

	return nil, fmt.Errorf("%w (%s): %w", errNoConnection, name, lastErr)
}
