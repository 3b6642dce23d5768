package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vegasq/insightq/dataset"
	"github.com/vegasq/insightq/engine"
	"github.com/vegasq/insightq/internal/config"
	"github.com/vegasq/insightq/internal/logger"
	"github.com/vegasq/insightq/internal/metrics"
	"github.com/vegasq/insightq/output"
	"github.com/vegasq/insightq/query"
)

var (
	configFlag   string
	datasetFlags []string
	formatFlag   string
	limitFlag    int
	logLevelFlag string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insightq",
		Short: "Query courses and rooms datasets with sentences or JSON objects",
		Long: `insightq answers queries over "courses" and "rooms" datasets loaded from
parquet or JSON files.

Datasets are given as id:kind:path, where path may be a glob pattern:

  insightq -d courses:courses:data/courses.parquet query \
    'In courses dataset courses, find entries whose Average is greater than 97, show Department and Average.'`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&configFlag, "config", "c", "", "config file (yaml, json or toml)")
	pf.StringArrayVarP(&datasetFlags, "dataset", "d", nil, "dataset to load, as id:kind:path (repeatable)")
	pf.StringVarP(&formatFlag, "format", "f", "", "output format: "+strings.Join(output.Names(), ", "))
	pf.IntVar(&limitFlag, "limit", -1, "limit number of rows (0 = unlimited)")
	pf.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newQueryCmd(), newASTCmd(), newReplCmd(), newSchemaCmd(), newInspectCmd(), newDatasetsCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics.Metrics
	engine  *engine.Engine
}

// setup loads configuration, applies flag overrides and loads datasets
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if cmd.Flags().Changed("limit") {
		if limitFlag < 0 {
			return nil, fmt.Errorf("--limit must be non-negative, got %d", limitFlag)
		}
		cfg.Output.Limit = limitFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	for _, value := range datasetFlags {
		ds, err := parseDatasetFlag(value)
		if err != nil {
			return nil, err
		}
		cfg.Datasets = append(cfg.Datasets, ds)
	}

	a := &app{
		cfg:    cfg,
		logger: logger.New(os.Stderr, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}),
		reg:    prometheus.NewRegistry(),
	}
	a.metrics = metrics.New(a.reg)
	a.engine = engine.New(dataset.NewCatalog(), engine.WithLogger(a.logger), engine.WithMetrics(a.metrics))

	for _, ds := range cfg.Datasets {
		if _, err := a.engine.Load(ds.ID, ds.Kind, ds.Path); err != nil {
			return nil, fmt.Errorf("failed to load dataset %s: %w", ds.ID, err)
		}
	}
	return a, nil
}

// parseDatasetFlag splits "id:kind:path"; path keeps any further colons
func parseDatasetFlag(value string) (config.DatasetConfig, error) {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return config.DatasetConfig{}, fmt.Errorf("invalid --dataset %q: want id:kind:path", value)
	}
	return config.DatasetConfig{ID: parts[0], Kind: parts[1], Path: parts[2]}, nil
}

// write formats res to w with the configured format and limit
func (a *app) write(w io.Writer, res *query.Result) error {
	formatter, err := output.New(a.cfg.Output.Format, w)
	if err != nil {
		return err
	}
	res.Limit(a.cfg.Output.Limit)
	if err := formatter.Format(res); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
