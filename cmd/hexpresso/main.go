// hexpresso computes streaming statistics over partitioned data sources.
//
// Default mode treats each argument as one partition (line-delimited text,
// or Parquet when the path ends in .parquet), maps them across workers, and
// prints the merged statistics. With -db, arguments are SQL queries run as
// shards against a DuckDB database. With -live, values are read from stdin
// one line at a time and the running statistics are printed after each step.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/Mifour/hexpresso/config"
	"github.com/Mifour/hexpresso/internal/collect"
	"github.com/Mifour/hexpresso/internal/logging"
	"github.com/Mifour/hexpresso/internal/reduce"
	"github.com/Mifour/hexpresso/internal/stats"
	"github.com/Mifour/hexpresso/internal/stream"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfgPath := flag.String("config", "config.yaml", "config file path")
	workers := flag.Int("workers", -1, "max concurrent partition workers (overrides config; 0 = one per partition)")
	skip := flag.Bool("skip-malformed", false, "skip malformed values instead of failing the partition")
	percentiles := flag.String("percentiles", "", "comma-separated percentiles to report, e.g. 50,90,99 (\"default\" = 50,90,95,99)")
	live := flag.Bool("live", false, "drive stdin and print running statistics after each value")
	dbPath := flag.String("db", "", "DuckDB database path; arguments become SQL shard queries")
	snapshotOut := flag.String("snapshot-out", "", "write the merged snapshot to this Parquet file")
	series := flag.String("series", "values", "series label for snapshots")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// Load config; a missing file just means defaults.
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.Default()
		} else {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI overrides
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *skip {
		cfg.ParsePolicy = "skip"
	}
	if *percentiles != "" {
		ps, err := parsePercentiles(*percentiles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -percentiles: %v\n", err)
			os.Exit(1)
		}
		cfg.Percentiles = ps
	}

	level, err := cfg.LogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, cfg.Log.JSON)
	log := logging.Component("cli")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *live {
		if err := runLive(ctx); err != nil && ctx.Err() == nil {
			log.Error("live stream failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hexpresso [flags] <partition> [<partition> ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	parts, cleanup, err := buildPartitions(flag.Args(), *dbPath)
	if err != nil {
		log.Error("build partitions", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	policy := reduce.ParseAbort
	if cfg.ParsePolicy == "skip" {
		policy = reduce.ParseSkip
	}
	reducer, err := reduce.New(reduce.Config{
		MaxWorkers:     cfg.Workers,
		ParsePolicy:    policy,
		Percentiles:    cfg.Percentiles,
		SketchAccuracy: cfg.SketchAccuracy,
	})
	if err != nil {
		log.Error("configure reducer", "error", err)
		os.Exit(1)
	}

	result, err := reducer.Reduce(ctx, parts)
	if err != nil {
		if result == nil || result.IsEmpty() {
			log.Error("reduce failed", "error", err)
			os.Exit(1)
		}
		// Partial success: report the failed partitions but keep the result.
		log.Warn("some partitions failed", "error", err)
	}

	printResult(result)

	if *snapshotOut != "" {
		snap := result.Snapshot
		snap.Series = *series
		if err := collect.WriteSnapshots(*snapshotOut, []stats.Snapshot{snap}); err != nil {
			log.Error("write snapshot", "error", err)
			os.Exit(1)
		}
		log.Info("snapshot written", "path", *snapshotOut, "series", *series)
	}
}

// buildPartitions maps CLI arguments to partitions. With a database path the
// arguments are SQL queries; otherwise they are file paths, Parquet when the
// extension says so.
func buildPartitions(args []string, dbPath string) ([]reduce.Partition, func(), error) {
	cleanup := func() {}

	if dbPath != "" {
		db, err := reduce.OpenDuckDB(dbPath)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { db.Close() }

		parts := make([]reduce.Partition, 0, len(args))
		for i, query := range args {
			p, err := reduce.NewQueryPartition(db, fmt.Sprintf("query-%d", i), query)
			if err != nil {
				return nil, cleanup, err
			}
			parts = append(parts, p)
		}
		return parts, cleanup, nil
	}

	parts := make([]reduce.Partition, 0, len(args))
	for _, path := range args {
		if filepath.Ext(path) == ".parquet" {
			p, err := reduce.NewParquetPartition(path)
			if err != nil {
				return nil, cleanup, err
			}
			parts = append(parts, p)
			continue
		}
		p, err := reduce.NewFilePartition(path)
		if err != nil {
			return nil, cleanup, err
		}
		parts = append(parts, p)
	}
	return parts, cleanup, nil
}

// runLive drives stdin through mean, variance, and max accumulators,
// printing the running values after every step.
func runLive(ctx context.Context) error {
	mean := stats.NewRunningMean()
	variance := stats.NewRunningVariance()
	max := stats.NewRunningMax()

	driver := stream.NewDriver(mean, variance, max)
	driver.OnStep(func(step uint64, x float64, results []float64) {
		fmt.Printf("n=%d x=%g mean=%g variance=%g max=%g\n",
			step, x, results[0], results[1], results[2])
	})

	_, err := driver.Run(ctx, stream.NewReaderSource(os.Stdin))
	return err
}

func printResult(r *reduce.Result) {
	if r.IsEmpty() {
		fmt.Println("no data")
		return
	}

	fmt.Printf("count      %d\n", r.Count)
	fmt.Printf("mean       %g\n", r.Mean)
	fmt.Printf("variance   %g\n", r.Variance)
	fmt.Printf("min        %g\n", r.Min)
	fmt.Printf("max        %g\n", r.Max)

	if len(r.Percentiles) > 0 {
		ps := make([]float64, 0, len(r.Percentiles))
		for p := range r.Percentiles {
			ps = append(ps, p)
		}
		sort.Float64s(ps)
		for _, p := range ps {
			fmt.Printf("p%-9g %g\n", p, r.Percentiles[p])
		}
	}
	if r.Skipped > 0 {
		fmt.Printf("skipped    %d\n", r.Skipped)
	}
	fmt.Printf("partitions %d\n", r.Partitions)
}

// parsePercentiles parses a comma-separated percentile list.
func parsePercentiles(s string) ([]float64, error) {
	if s == "default" {
		return config.DefaultPercentiles, nil
	}
	var ps []float64
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		p, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("percentile %q: %w", tok, err)
		}
		ps = append(ps, p)
	}
	return ps, nil
}
