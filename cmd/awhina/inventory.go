package main

import (
	"fmt"

	cli "github.com/urfave/cli/v2"
)

func inventoryCommand(args *arguments) *cli.Command {
	flags := append(runFlags(args),
		&cli.StringFlag{
			Name:        "search",
			Aliases:     []string{"s"},
			Usage:       "regular expression matched against variable:level:forecast_time",
			Destination: &args.Search,
		},
	)

	return &cli.Command{
		Name:  "inventory",
		Usage: "print the parsed index of the run's grib file",
		Flags: flags,
		Action: func(*cli.Context) error {
			run, err := args.run()
			if err != nil {
				return err
			}

			res := run.Resolve(false)
			inv, err := run.ReadIndex(res, args.Search)
			if err != nil {
				return err
			}

			fmt.Printf("# %s %s f%02d, index from %s\n",
				inv.Model, inv.RunDate.Format("2006-01-02 15Z"), inv.ForecastHour, inv.Source)
			for _, item := range inv.Items {
				fmt.Printf("%g\t%-16s\t%s\t%s:%s:%s\n",
					item.MessageNumber, item.Range(),
					item.ValidTime.Format("2006-01-02 15Z"),
					item.Variable, item.Level, item.ForecastTime)
			}
			return nil
		},
	}
}
