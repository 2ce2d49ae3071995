package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
)

func main() {
	app := &cli.Command{
		Name:  "recsearch",
		Usage: "Search cached recreation areas from the command line",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level := "warn"
			if c.Bool("debug") {
				level = "debug"
			}
			observability.InitLogger("recsearch", "development", level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			SearchCommand(),
			GeocodeCommand(),
			TravelCommand(),
			SeedCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("recsearch failed")
	}
}
