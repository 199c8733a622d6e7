package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rjw57/awhina"

	cli "github.com/urfave/cli/v2"
)

type arguments struct {
	// Global
	ConfigPath string
	SaveDir    string
	Priority   cli.StringSlice
	LogLevel   string

	// Run selection
	Model     string
	Product   string
	Date      string
	ValidDate string
	Fxx       int
	Member    int

	// Download
	Search    string
	Overwrite bool
	Strict    bool
}

// runFlags are shared by every subcommand that identifies a run.
func runFlags(args *arguments) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "model name (e.g. hrrr, gfs, gefs, ecmwf)",
			Required:    true,
			Destination: &args.Model,
		},
		&cli.StringFlag{
			Name:        "product",
			Usage:       "product code; defaults to the model's first product",
			Destination: &args.Product,
		},
		&cli.StringFlag{
			Name:        "date",
			Aliases:     []string{"d"},
			Usage:       "initialization time, e.g. '2022-01-26 00'",
			Destination: &args.Date,
		},
		&cli.StringFlag{
			Name:        "valid-date",
			Usage:       "valid time instead of initialization time",
			Destination: &args.ValidDate,
		},
		&cli.IntFlag{
			Name:        "fxx",
			Aliases:     []string{"f"},
			Usage:       "forecast lead time in hours",
			Destination: &args.Fxx,
		},
		&cli.IntFlag{
			Name:        "member",
			Usage:       "ensemble member, for models that have them",
			Destination: &args.Member,
		},
	}
}

var dateLayouts = []string{
	"2006-01-02 15",
	"2006-01-02T15",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006010215",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised date %q", s)
}

// config assembles the effective configuration from file and flags.
func (args *arguments) config() (*awhina.Config, error) {
	cfg := awhina.DefaultConfig()
	if args.ConfigPath != "" {
		var err error
		if cfg, err = awhina.LoadConfig(args.ConfigPath); err != nil {
			return nil, err
		}
	}
	if args.SaveDir != "" {
		cfg.SaveDir = args.SaveDir
	}
	if v := args.Priority.Value(); len(v) > 0 {
		cfg.Priority = v
	}
	return cfg, nil
}

// run builds the validated Run the subcommand flags describe.
func (args *arguments) run() (*awhina.Run, error) {
	cfg, err := args.config()
	if err != nil {
		return nil, err
	}

	spec := awhina.RunSpec{
		Model:        args.Model,
		Product:      args.Product,
		ForecastHour: args.Fxx,
		Member:       args.Member,
	}
	if args.Date != "" {
		if spec.Date, err = parseDate(args.Date); err != nil {
			return nil, err
		}
	}
	if args.ValidDate != "" {
		if spec.ValidDate, err = parseDate(args.ValidDate); err != nil {
			return nil, err
		}
	}

	return awhina.NewRun(cfg, spec)
}
