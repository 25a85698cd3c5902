package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/fairnorm/internal/config"
	"github.com/crimson-sun/fairnorm/internal/connector"
	"github.com/crimson-sun/fairnorm/internal/metrics"
	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/output"
	"github.com/crimson-sun/fairnorm/internal/output/file"
	"github.com/crimson-sun/fairnorm/internal/output/multi"
	"github.com/crimson-sun/fairnorm/internal/output/stdout"
	"github.com/crimson-sun/fairnorm/internal/pipeline"
	"github.com/crimson-sun/fairnorm/internal/store"
)

type runFlags struct {
	input       string
	source      string
	limit       int
	stream      bool
	window      time.Duration
	batch       int
	tee         bool
	storeName   string
	storePath   string
	dsn         string
	write       bool
	outputPath  string
	metricsPath string
	threshold   float64
	maxDayDiff  int
	workers     int
}

func newRunCommand(a *app) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: connector, normalize, deduplicate, output and store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.run(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "input file (default stdin)")
	fl.StringVar(&f.source, "source", "", "only process records from this source id")
	fl.IntVar(&f.limit, "limit", 0, "stop after this many records (0 for all)")
	fl.BoolVar(&f.stream, "stream", false, "process records in timed batches as they arrive")
	fl.DurationVar(&f.window, "window", time.Second, "stream batch window")
	fl.IntVar(&f.batch, "batch", 500, "stream batch size that forces a flush")
	fl.BoolVar(&f.tee, "tee", false, "also write records to stdout when writing to a file")
	fl.StringVar(&f.storeName, "store", "", "candidate store (none, memory, postgres)")
	fl.StringVar(&f.storePath, "store-path", "", "NDJSON snapshot for the memory store")
	fl.StringVar(&f.dsn, "dsn", "", "PostgreSQL connection string")
	fl.BoolVar(&f.write, "write", false, "insert unique records into the store")
	fl.StringVarP(&f.outputPath, "output", "o", "", "write NDJSON to this file instead of stdout")
	fl.StringVar(&f.metricsPath, "metrics", "", "write Prometheus textfile metrics here")
	fl.Float64Var(&f.threshold, "threshold", 0, "fuzzy name match threshold")
	fl.IntVar(&f.maxDayDiff, "max-day-diff", 0, "fuzzy date gate in days")
	fl.IntVar(&f.workers, "workers", 0, "concurrent normalization workers")
	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Connector.Path = f.input
	}
	if changed("store") {
		cfg.Store.Provider = f.storeName
	}
	if changed("store-path") {
		cfg.Store.Path = f.storePath
	}
	if changed("dsn") {
		cfg.Store.DSN = f.dsn
	}
	if changed("write") {
		cfg.Store.Write = f.write
	}
	if changed("output") {
		cfg.Output.Format = "file"
		cfg.Output.Path = f.outputPath
	}
	if changed("metrics") {
		cfg.Metrics.Path = f.metricsPath
	}
	if changed("threshold") {
		cfg.Engine.Threshold = f.threshold
	}
	if changed("max-day-diff") {
		cfg.Engine.MaxDayDiff = f.maxDayDiff
	}
	if changed("workers") {
		cfg.Engine.Workers = f.workers
	}
}

func (a *app) run(cmd *cobra.Command, f runFlags) error {
	cfg := a.cfg
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	ctor, err := connector.Get(cfg.Connector.Provider)
	if err != nil {
		return err
	}
	connCfg := connector.Config{
		Provider: cfg.Connector.Provider,
		Path:     cfg.Connector.Path,
		Reader:   cmd.InOrStdin(),
		Hint:     model.SourceHint(cfg.Engine.SourceHint),
	}

	st, err := store.Open(ctx, store.Config{
		Provider:       cfg.Store.Provider,
		Path:           cfg.Store.Path,
		DSN:            cfg.Store.DSN,
		ConnectTimeout: cfg.Store.ConnectTimeout,
	})
	if err != nil {
		return err
	}

	out, err := a.newOutput(cmd, f.tee)
	if err != nil {
		st.Close()
		return err
	}

	m := metrics.New()
	p := pipeline.New(ctor(), eng, out,
		pipeline.WithStore(st, cfg.Store.Write),
		pipeline.WithMetrics(m),
		pipeline.WithWorkers(cfg.Engine.Workers),
		pipeline.WithHint(model.SourceHint(cfg.Engine.SourceHint)),
		pipeline.WithStreamBuffer(f.window, f.batch),
	)

	slog.Info("fairnorm: starting",
		"connector", cfg.Connector.Provider,
		"store", cfg.Store.Provider,
		"output", cfg.Output.Format,
		"stream", f.stream,
	)
	if f.stream {
		err = p.Stream(ctx, connCfg)
	} else {
		err = p.Query(ctx, connCfg, connector.QueryParams{SourceID: f.source, Limit: f.limit})
	}
	closeErr := p.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	if path := cfg.Metrics.Path; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	s := p.Stats()
	fmt.Fprintf(cmd.ErrOrStderr(), "scraped=%d normalized=%d duplicates=%d (exact=%d fuzzy=%d) written=%d inserted=%d\n",
		s.Scraped, s.Normalized, s.Duplicates(), s.Exact, s.Fuzzy, s.Written, s.Inserted)
	return nil
}

func (a *app) newOutput(cmd *cobra.Command, tee bool) (output.Output, error) {
	oc := a.cfg.Output
	v, err := output.ParseVerbosity(oc.Verbosity)
	if err != nil {
		return nil, err
	}
	std := stdout.NewWriter(cmd.OutOrStdout(), v, oc.Pretty)
	if oc.Format != "file" {
		return std, nil
	}
	fo, err := file.New(oc.Path, v, file.WithMaxSize(oc.MaxSize), file.WithKeep(oc.Keep))
	if err != nil {
		return nil, err
	}
	if tee {
		return multi.New(fo, std), nil
	}
	return fo, nil
}
