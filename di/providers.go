package di

import (
	"context"
	"fmt"
	"time"

	"todoapp/config"
	"todoapp/infras/database"
	"todoapp/infras/kafka"
	"todoapp/infras/otel"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// provideDatabase opens the configured SQL backend. The connection is nil for the memory store.
func provideDatabase(cfg *config.Config) (*database.Connection, func(), error) {
	conn, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	cleanup := func() {
		if conn == nil {
			return
		}

		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}

	return conn, cleanup, nil
}

func provideOtel(cfg *config.Config) (otel.Otel, func()) {
	o := otel.New(cfg)

	return o, func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := o.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}
}

func provideKafka(cfg *config.Config) (kafka.Client, func()) {
	client := kafka.New(cfg)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka client")
		}
	}
}
