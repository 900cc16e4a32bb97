package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/johndauphine/tabprof/internal/version"

	_ "github.com/johndauphine/tabprof/internal/driver/mssql"
	_ "github.com/johndauphine/tabprof/internal/driver/mysql"
	_ "github.com/johndauphine/tabprof/internal/driver/postgres"
	_ "github.com/johndauphine/tabprof/internal/driver/sqlite"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    version.Name,
		Usage:   version.Description,
		Version: version.Version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:   "columns",
				Usage:  "List the columns of the source with their storage types",
				Action: listColumns,
			},
			{
				Name:  "profile",
				Usage: "Gather per-column statistics",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "text",
						Usage:   "Output format: text, json or yaml",
					},
					&cli.StringFlag{
						Name:  "output-file",
						Usage: "Write the report to a file instead of stdout",
					},
				},
				Action: profileSource,
			},
			{
				Name:  "infer",
				Usage: "Infer the feature type of every column",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "text",
						Usage:   "Output format: text, json or yaml",
					},
				},
				Action: inferTypes,
			},
			{
				Name:  "config",
				Usage: "Generate a model configuration from the inferred feature types",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output-file",
						Usage: "Write the model config to a file instead of stdout",
					},
				},
				Action: generateConfig,
			},
			{
				Name:  "history",
				Usage: "List previous profile runs, or show the report of one run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "Show the report for a specific run ID",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum number of runs to list",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "text",
						Usage:   "Output format for --run: text, json or yaml",
					},
				},
				Action: showHistory,
			},
			{
				Name:   "drivers",
				Usage:  "List the available database drivers",
				Action: listDrivers,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			EnvVars: []string{"TABPROF_CONFIG"},
		},
		&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "File path or s3://bucket/key to profile"},
		&cli.StringFlag{Name: "format", Usage: "File format: csv, tsv, json or parquet (default: from extension)"},
		&cli.StringFlag{Name: "db-type", Usage: "Database type: postgres, mssql, mysql or sqlite"},
		&cli.StringFlag{Name: "db-host", Usage: "Database host"},
		&cli.IntFlag{Name: "db-port", Usage: "Database port"},
		&cli.StringFlag{Name: "db-name", Usage: "Database name (sqlite: file path)"},
		&cli.StringFlag{Name: "db-user", Usage: "Database user"},
		&cli.StringFlag{Name: "db-password", Usage: "Database password", EnvVars: []string{"TABPROF_DB_PASSWORD"}},
		&cli.StringFlag{Name: "schema", Usage: "Database schema"},
		&cli.StringFlag{Name: "table", Aliases: []string{"t"}, Usage: "Database table"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Columns profiled in parallel"},
		&cli.IntFlag{Name: "max-distinct", Usage: "Distinct values kept per column"},
		&cli.StringSliceFlag{Name: "target", Usage: "Target (output) column, repeatable"},
		&cli.StringSliceFlag{Name: "exclude", Usage: "Column to skip, repeatable"},
		&cli.StringFlag{Name: "history-path", Usage: "Path of the run history database"},
		&cli.BoolFlag{Name: "no-history", Usage: "Do not record the run"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Hide the progress bar"},
		&cli.StringFlag{Name: "log-level", Usage: "Log level: debug, info, warn or error"},
		&cli.StringFlag{Name: "log-format", Usage: "Log format: text or json"},
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nInterrupted. Stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
