package cli

import (
	"fmt"
	"time"

	"github.com/hupe1980/dsopt"
	"github.com/hupe1980/dsopt/codec"
	"github.com/hupe1980/dsopt/export"
	"github.com/hupe1980/dsopt/internal/config"
	"github.com/hupe1980/dsopt/internal/workload"
	"github.com/hupe1980/dsopt/registry"
	"github.com/spf13/cobra"
)

type simulateFlags struct {
	configFile string
	ops        int
	seed       int64
	publish    bool
	pretty     bool
}

func newSimulateCommand() *cobra.Command {
	var f simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a synthetic workload and print the optimization report",
		Long: `simulate creates the structures listed in the configuration, drives them with
a seeded mix of searches, inserts, deletes and updates, and prints the
resulting optimization report as JSON. With --publish the report is also
written to every configured export sink.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	flags.IntVar(&f.ops, "ops", 0, "number of operations (overrides workload.ops)")
	flags.Int64Var(&f.seed, "seed", 0, "random seed (overrides workload.seed)")
	flags.BoolVar(&f.publish, "publish", false, "publish the report to the configured sinks")
	flags.BoolVar(&f.pretty, "pretty", true, "indent the printed report")
	return cmd
}

func runSimulate(cmd *cobra.Command, f simulateFlags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(f.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ops") {
		cfg.Workload.Ops = f.ops
	}
	if cmd.Flags().Changed("seed") {
		cfg.Workload.Seed = f.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := workload.New(eng.Registry(), eng.Monitor(), workload.Config{Seed: cfg.Workload.Seed}).
		Run(ctx, cfg.Workload.Ops)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "workload finished",
		"ops", res.Ops,
		"cache_hits", res.CacheHits,
		"cache_misses", res.CacheMisses,
		"duration", time.Since(start),
	)

	eng.AutoOptimize()
	report := eng.Report()

	var out codec.Codec = codec.GoJSON{}
	if f.pretty {
		out = codec.IndentJSON{Indent: "  "}
	}
	data, err := out.Marshal(report)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(data)); err != nil {
		return err
	}

	if !f.publish {
		return nil
	}
	pub, err := newPublisher(ctx, cfg.Export, export.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	name, err := pub.Publish(ctx, report)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "published %s to %d sink(s)\n", name, pub.Sinks())
	return nil
}

// newEngine creates an engine and every structure declared in cfg.
func newEngine(cfg config.Config, logger *dsopt.Logger) (*dsopt.Engine, error) {
	opts := []dsopt.Option{
		dsopt.WithLogger(logger),
		dsopt.WithWindowSize(cfg.Monitor.WindowSize),
		dsopt.WithMaxSuggestions(cfg.Monitor.MaxSuggestions),
		dsopt.WithMemoryCeiling(cfg.Optimizer.MemoryCeilingBytes),
		dsopt.WithHitRateFloor(cfg.Optimizer.HitRateFloor),
		dsopt.WithMinRequests(cfg.Optimizer.MinRequests),
	}
	for c, d := range cfg.Thresholds() {
		opts = append(opts, dsopt.WithThreshold(c, d))
	}
	eng := dsopt.New(opts...)

	for _, s := range cfg.Structures {
		kind, _ := registry.ParseKind(s.Kind)
		switch kind {
		case registry.KindCache:
			if _, err := eng.NewCache(s.Name, s.Capacity); err != nil {
				return nil, err
			}
		case registry.KindTrie:
			eng.NewTrie(s.Name)
		case registry.KindQueue:
			var less func(a, b float64) bool
			if s.MaxFirst {
				less = func(a, b float64) bool { return a > b }
			}
			eng.NewPriorityQueue(s.Name, less)
		case registry.KindFilter:
			if _, err := eng.NewBloomFilter(s.Name, s.ExpectedElements, s.FalsePositiveRate); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unknown structure kind %q", config.ErrInvalid, s.Kind)
		}
	}
	return eng, nil
}
