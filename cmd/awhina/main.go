package main

import (
	"os"

	"github.com/rjw57/awhina"

	cli "github.com/urfave/cli/v2"
)

func main() {
	var args arguments

	app := &cli.App{
		Name:  "awhina",
		Usage: "find and download numerical-weather-model GRIB2 output",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to YAML config file",
				EnvVars:     []string{"AWHINA_CONFIG"},
				Destination: &args.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "save-dir",
				Usage:       "root of the local cache tree",
				EnvVars:     []string{"AWHINA_SAVE_DIR"},
				Destination: &args.SaveDir,
			},
			&cli.StringSliceFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "source names to search, in order (e.g. aws,nomads)",
				Destination: &args.Priority,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Value:       "INFO",
				Usage:       "TRACE, DEBUG, INFO, WARN or ERROR",
				EnvVars:     []string{"AWHINA_LOG_LEVEL"},
				Destination: &args.LogLevel,
			},
		},
		Before: func(*cli.Context) error {
			awhina.SetLogLevel(args.LogLevel)
			initErrorHandler()
			return nil
		},
		Commands: []*cli.Command{
			findCommand(&args),
			inventoryCommand(&args),
			downloadCommand(&args),
		},
	}

	if err := app.Run(os.Args); err != nil {
		handleError(err)
		flushErrors()
		os.Exit(1)
	}
	flushErrors()
}
