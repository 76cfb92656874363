package main

import (
	"context"
	"os"

	"todoapp/config"
	"todoapp/helper"
	"todoapp/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func action(run func(cfg *config.Config) error) cli.ActionFunc {
	return func(_ context.Context, _ *cli.Command) error {
		return run(config.Get())
	}
}

func main() {
	logger.InitLogger()

	app := &cli.Command{
		Name:  "migrate",
		Usage: "Manage the todo database schema",
		Description: `Runs the embedded migrations against the store selected by DB_DRIVER or DB_URL.
The memory store has no schema and every command is a no-op for it.`,
		Commands: []*cli.Command{
			{
				Name:   helper.ActionUp,
				Usage:  "apply every pending migration",
				Action: action(helper.Up),
			},
			{
				Name:   helper.ActionDown,
				Usage:  "roll back the latest migration",
				Action: action(helper.Down),
			},
			{
				Name:   helper.ActionStepUp,
				Usage:  "apply the next pending migration",
				Action: action(helper.StepUp),
			},
			{
				Name:   helper.ActionDrop,
				Usage:  "roll back every migration",
				Action: action(helper.Drop),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
