package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/johndauphine/tabprof/internal/config"
	"github.com/johndauphine/tabprof/internal/datasource"
	"github.com/johndauphine/tabprof/internal/driver"
	"github.com/johndauphine/tabprof/internal/history"
	"github.com/johndauphine/tabprof/internal/loader"
	"github.com/johndauphine/tabprof/internal/logging"
	"github.com/johndauphine/tabprof/internal/modelconfig"
	"github.com/johndauphine/tabprof/internal/profile"
	"github.com/johndauphine/tabprof/internal/progress"
)

// loadConfig reads the config file (if any), applies flag overrides and
// configures logging.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	applyFlags(c, cfg)
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logging.SetLevel(level)
	logging.SetFormat(cfg.Logging.Format)
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("source") {
		cfg.Source.Path = c.String("source")
	}
	if c.IsSet("format") {
		cfg.Source.Format = c.String("format")
	}
	db := &cfg.Source.Database
	if c.IsSet("db-type") {
		db.Type = c.String("db-type")
	}
	if c.IsSet("db-host") {
		db.Host = c.String("db-host")
	}
	if c.IsSet("db-port") {
		db.Port = c.Int("db-port")
	}
	if c.IsSet("db-name") {
		db.Database = c.String("db-name")
	}
	if c.IsSet("db-user") {
		db.User = c.String("db-user")
	}
	if c.IsSet("db-password") {
		db.Password = c.String("db-password")
	}
	if c.IsSet("schema") {
		db.Schema = c.String("schema")
	}
	if c.IsSet("table") {
		db.Table = c.String("table")
	}
	if c.IsSet("workers") {
		cfg.Profile.Workers = c.Int("workers")
	}
	if c.IsSet("max-distinct") {
		cfg.Profile.MaxDistinctValues = c.Int("max-distinct")
	}
	if c.IsSet("target") {
		cfg.Profile.Targets = c.StringSlice("target")
	}
	if c.IsSet("exclude") {
		cfg.Profile.Exclude = c.StringSlice("exclude")
	}
	if c.IsSet("history-path") {
		cfg.History.Path = c.String("history-path")
	}
	if c.Bool("no-history") {
		cfg.History.Disabled = true
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}
}

// openSource opens the configured file or database table. The returned
// function releases it.
func openSource(ctx context.Context, cfg *config.Config) (datasource.DataSource, func(), error) {
	if !cfg.HasSource() {
		return nil, nil, fmt.Errorf("no source configured: use --source, --db-type/--table or a config file")
	}
	if cfg.Source.Database.IsSet() {
		src, err := datasource.OpenSQL(ctx, &cfg.Source.Database)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	}

	ds, err := loader.Load(ctx, cfg.Source.Path, loader.Options{Format: cfg.Source.Format, S3: &cfg.S3})
	if err != nil {
		return nil, nil, err
	}
	return ds.Source, ds.Close, nil
}

// runProfile profiles the configured source and records the run in history.
func runProfile(c *cli.Context, cfg *config.Config) (*profile.Report, error) {
	ctx, cancel := signalContext()
	defer cancel()

	src, release, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	opts := profile.Options{
		MaxDistinctValues: cfg.Profile.MaxDistinctValues,
		MediaSampleSize:   cfg.Profile.MediaSampleSize,
		Workers:           cfg.Profile.Workers,
		Exclude:           cfg.Profile.Exclude,
	}
	var tracker *progress.Tracker
	if !c.Bool("quiet") {
		tracker = progress.New(c.App.ErrWriter)
		opts.Progress = tracker
	}

	report, err := profile.New(opts).Profile(ctx, cfg.SourceName(), src)
	if err != nil {
		return nil, err
	}
	if tracker != nil {
		tracker.Finish()
	}

	if !cfg.History.Disabled {
		if err := saveHistory(ctx, cfg.History.Path, report); err != nil {
			logging.Warn("Could not record run %s: %v", report.RunID, err)
		}
	}
	return report, nil
}

func saveHistory(ctx context.Context, path string, report *profile.Report) error {
	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Save(ctx, report); err != nil {
		return err
	}
	logging.Debug("Recorded run %s in %s", report.RunID, path)
	return nil
}

func listColumns(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	src, release, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tDTYPE\tSTRING")
	for _, col := range src.Columns() {
		dtype, err := src.DType(col)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\n", col, dtype, src.IsStringType(dtype))
	}
	fmt.Fprintf(tw, "\n%d rows\n", src.Len())
	return tw.Flush()
}

func profileSource(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	report, err := runProfile(c, cfg)
	if err != nil {
		return err
	}
	return writeReport(c, report, c.String("output"))
}

func writeReport(c *cli.Context, report *profile.Report, format string) error {
	var data []byte
	var err error
	switch strings.ToLower(format) {
	case "json":
		data, err = json.MarshalIndent(report, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(report)
	case "text", "":
		var sb strings.Builder
		formatReportText(&sb, report)
		data = []byte(sb.String())
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return writeOutput(c, data)
}

func formatReportText(w io.Writer, report *profile.Report) {
	fmt.Fprintf(w, "Run:     %s\n", report.RunID)
	fmt.Fprintf(w, "Source:  %s\n", report.Source)
	fmt.Fprintf(w, "Rows:    %d\n", report.Rows)
	fmt.Fprintf(w, "Started: %s\n\n", report.StartedAt.Format("2006-01-02 15:04:05"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tDTYPE\tDISTINCT\tBALANCE\tNONNULL\tIMAGE\tAUDIO\tAVG_WORDS\tVALUES")
	for _, f := range report.Fields {
		if f.Error != "" {
			fmt.Fprintf(tw, "%s\terror: %s\n", f.Name, f.Error)
			continue
		}
		words := "-"
		if f.AvgWords != nil {
			words = fmt.Sprint(*f.AvgWords)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3f\t%d\t%d\t%d\t%s\t%s\n",
			f.Name, f.DType, f.NumDistinctValues, f.DistinctValuesBalance, f.NonNullValues,
			f.ImageValues, f.AudioValues, words, formatValues(f.DistinctValues, 5))
	}
	tw.Flush()
}

func formatValues(values []any, limit int) string {
	parts := make([]string, 0, limit+1)
	for i, v := range values {
		if i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ", ")
}

func inferTypes(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	report, err := runProfile(c, cfg)
	if err != nil {
		return err
	}
	meta := profile.Metadata(report, cfg.Profile.Targets)

	switch strings.ToLower(c.String("output")) {
	case "json":
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(c, append(data, '\n'))
	case "yaml":
		data, err := yaml.Marshal(meta)
		if err != nil {
			return err
		}
		return writeOutput(c, data)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tMODE\tEXCLUDED\tMISSING\tIMBALANCE")
	for _, m := range meta {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%.1f%%\t%.3f\n",
			m.Name, m.Config.Type, m.Mode, m.Excluded, m.MissingValues*100, m.ImbalanceRatio)
	}
	return tw.Flush()
}

func generateConfig(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if len(cfg.Profile.Targets) == 0 {
		return fmt.Errorf("at least one --target column is required")
	}
	report, err := runProfile(c, cfg)
	if err != nil {
		return err
	}

	model, err := modelconfig.Build(profile.Metadata(report, cfg.Profile.Targets), cfg.Profile.Targets)
	if err != nil {
		return fmt.Errorf("building model config: %w", err)
	}
	data, err := model.Marshal()
	if err != nil {
		return fmt.Errorf("encoding model config: %w", err)
	}
	return writeOutput(c, data)
}

func showHistory(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID := c.String("run"); runID != "" {
		report, err := store.Get(ctx, runID)
		if err != nil {
			return err
		}
		return writeReport(c, report, c.String("output"))
	}

	runs, err := store.List(ctx, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.App.Writer, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSOURCE\tCOLUMNS\tROWS\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Source, r.Columns, r.Rows, r.Failed)
	}
	return tw.Flush()
}

func listDrivers(c *cli.Context) error {
	for _, name := range driver.Available() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

// writeOutput writes data to --output-file when set, else to the app writer.
func writeOutput(c *cli.Context, data []byte) error {
	if path := c.String("output-file"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logging.Info("Wrote %s", path)
		return nil
	}
	_, err := c.App.Writer.Write(data)
	return err
}
