package main

import (
	"fmt"

	"github.com/rjw57/awhina"

	cli "github.com/urfave/cli/v2"
)

func downloadCommand(args *arguments) *cli.Command {
	flags := append(runFlags(args),
		&cli.StringFlag{
			Name:        "search",
			Aliases:     []string{"s"},
			Usage:       "download only the GRIB messages matching this regular expression",
			Destination: &args.Search,
		},
		&cli.BoolFlag{
			Name:        "overwrite",
			Usage:       "re-download even when a local copy exists",
			Destination: &args.Overwrite,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "treat a missing grib file as an error instead of a warning",
			Destination: &args.Strict,
		},
	)

	return &cli.Command{
		Name:  "download",
		Usage: "download the run's grib file, whole or subset",
		Flags: flags,
		Action: func(*cli.Context) error {
			run, err := args.run()
			if err != nil {
				return err
			}

			res := run.Resolve(args.Overwrite)

			mode := awhina.ModeWarn
			if args.Strict {
				mode = awhina.ModeRaise
			}

			path, err := run.Download(res, awhina.DownloadOptions{
				Search:    args.Search,
				Overwrite: args.Overwrite,
				Errors:    mode,
			})
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Println(path)
			}
			return nil
		},
	}
}
