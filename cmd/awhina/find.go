package main

import (
	"fmt"

	cli "github.com/urfave/cli/v2"
)

func findCommand(args *arguments) *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "probe the configured sources and report where the run lives",
		Flags: runFlags(args),
		Action: func(*cli.Context) error {
			run, err := args.run()
			if err != nil {
				return err
			}

			res := run.Resolve(false)

			for _, probe := range res.Probes {
				status := ""
				if probe.GribFound {
					status += " grib"
				}
				if probe.IdxFound {
					status += " idx"
				}
				if status == "" {
					status = " -"
				}
				if probe.Err != nil {
					status += fmt.Sprintf(" (probe error: %v)", probe.Err)
				}
				fmt.Printf("%-10s%s\n", probe.Source, status)
			}

			fmt.Println(res.State())
			if res.Grib.Found() {
				fmt.Printf("grib: %s (from %s)\n", res.Grib.URL, res.Grib.Source)
			}
			if res.Idx.Found() {
				fmt.Printf("idx:  %s (from %s)\n", res.Idx.URL, res.Idx.Source)
			}
			fmt.Printf("local path: %s\n", run.LocalPath(nil))
			return nil
		},
	}
}
