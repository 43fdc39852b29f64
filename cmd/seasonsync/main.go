package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/f1-fantasy/internal/app"
	"github.com/riskibarqy/f1-fantasy/internal/config"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "seasonsync",
		Usage: "copy a season of F1 results from the Ergast feed into storage",
		Commands: []*cli.Command{
			syncCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "sync one season",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "year",
				Usage: "season year, defaults to SEASON_YEAR then the current year",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the sync summary as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			if err := config.LoadDotEnv(); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := logging.New(cfg.AppEnv, cfg.LogLevel)
			logging.SetDefault(logger)
			defer func() {
				_ = logger.Sync()
			}()

			result, err := app.SyncSeason(c.Context, cfg, logger, c.Int("year"))
			if err != nil {
				return fmt.Errorf("sync season: %w", err)
			}

			if c.Bool("json") {
				out, err := sonic.ConfigDefault.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("encode summary: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("season %d: %d constructors, %d drivers, %d races, %d results\n",
				result.Year, result.Constructors, result.Drivers, result.Races, result.Results)
			for _, session := range result.Sessions {
				fmt.Printf("  %-10s %-7s races=%d entries=%d %dms %s\n",
					session.Session, session.Status, session.Races, session.Entries, session.DurationMs, session.Message)
			}
			return nil
		},
	}
}
