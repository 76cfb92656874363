package main

import (
	"todoapp/config"
	"todoapp/di"
	_ "todoapp/docs"
	"todoapp/helper"
	"todoapp/shared/logger"
	"todoapp/shared/timezone"

	"github.com/rs/zerolog/log"
)

// @title Todo API
// @version 1.0.0
// @description REST API for managing todo items.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLoggerWithWriter(logger.ForEnv(cfg.Server.Env))

	logger.SetLogLevel(cfg)

	timezone.Init(cfg.App.Timezone)

	if cfg.DB.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	defer cleanup()

	if err := http.Serve(); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
	}
}
