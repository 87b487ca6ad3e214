package reduce

import (
	"context"
	stderrors "errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Mifour/hexpresso/internal/errors"
	"github.com/Mifour/hexpresso/internal/logging"
	"github.com/Mifour/hexpresso/internal/quantile"
	"github.com/Mifour/hexpresso/internal/stats"
	"github.com/Mifour/hexpresso/internal/stream"
)

var log = logging.Component("reduce")

// runCounter labels each reduce run for log correlation.
var runCounter atomic.Uint64

// ParsePolicy controls how a worker treats a malformed value in its partition.
type ParsePolicy int

const (
	// ParseAbort discards the worker's contribution and surfaces the parse
	// failure to the coordinator. Default.
	ParseAbort ParsePolicy = iota

	// ParseSkip drops malformed values and counts them in Result.Skipped.
	ParseSkip
)

// Config configures a Reducer.
type Config struct {
	// MaxWorkers bounds concurrent partition workers. 0 means one worker
	// per partition.
	MaxWorkers int

	// ParsePolicy is the malformed-value policy applied in every worker.
	ParsePolicy ParsePolicy

	// Percentiles to report in the result, e.g. [50, 90, 99]. Empty
	// disables percentile sketching entirely.
	Percentiles []float64

	// SketchAccuracy is the DDSketch relative accuracy.
	// 0 means quantile.DefaultRelativeAccuracy.
	SketchAccuracy float64
}

// Result is the merged outcome of a reduce run. Statistic fields are only
// meaningful when Count > 0; use IsEmpty to check.
type Result struct {
	Count    uint64
	Mean     float64
	Variance float64 // population variance
	Min      float64
	Max      float64

	// Percentiles maps each requested percentile to its estimated value.
	// Nil when percentile sketching is disabled.
	Percentiles map[float64]float64

	// Snapshot carries the merged sufficient statistics, suitable for
	// shipping to a collector or persisting.
	Snapshot stats.Snapshot

	// Partitions is the number of partitions that contributed.
	Partitions int

	// Skipped counts malformed values dropped under ParseSkip.
	Skipped uint64
}

// IsEmpty returns true if no values were reduced.
func (r *Result) IsEmpty() bool {
	return r.Count == 0
}

// Reducer partitions work across independent goroutines and merges their
// results. Workers share nothing during the map phase; the only
// synchronization point is the join before the fold, and the fold itself is
// single-threaded, so no locks are involved anywhere.
type Reducer struct {
	cfg Config
}

// New creates a Reducer, validating the configuration.
func New(cfg Config) (*Reducer, error) {
	for _, p := range cfg.Percentiles {
		if p < 0 || p > 100 {
			return nil, errors.Wrapf(errors.ErrInvalidPercentile, "percentile %v", p)
		}
	}
	if cfg.MaxWorkers < 0 {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "max workers must be >= 0")
	}
	if cfg.SketchAccuracy == 0 {
		cfg.SketchAccuracy = quantile.DefaultRelativeAccuracy
	}
	if cfg.SketchAccuracy < 0 || cfg.SketchAccuracy >= 1 {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "sketch accuracy must be in (0, 1)")
	}
	return &Reducer{cfg: cfg}, nil
}

// Reduce maps every partition in its own worker goroutine, then folds the
// completed per-partition accumulators into one Result.
//
// A failing partition never aborts its siblings: every other partition still
// runs to completion and contributes to the Result. The failures are
// returned joined into one error, each carrying its partition identifier and
// failure kind (*errors.ParseError or *errors.PartitionError), alongside the
// Result built from the partitions that succeeded. Context cancellation
// stops all workers cooperatively and is returned as the sole error.
func (r *Reducer) Reduce(ctx context.Context, parts []Partition) (*Result, error) {
	if len(parts) == 0 {
		return nil, errors.ErrNoPartitions
	}

	ctx = logging.ContextWithRunID(ctx, runCounter.Add(1))
	log.Debug("map phase starting", "partitions", len(parts), "max_workers", r.cfg.MaxWorkers)

	// One slot per partition; each worker writes only its own index.
	locals := make([]*local, len(parts))
	failures := make([]error, len(parts))

	var g errgroup.Group
	if r.cfg.MaxWorkers > 0 {
		g.SetLimit(r.cfg.MaxWorkers)
	}

	for i, p := range parts {
		g.Go(func() error {
			lc, err := r.mapPartition(ctx, p)
			if err != nil {
				log.Warn("partition failed", "partition", p.ID(), "error", err)
				failures[i] = err
				return nil
			}
			locals[i] = lc
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := r.fold(locals)
	if err != nil {
		return nil, err
	}

	log.Debug("reduce finished",
		"count", result.Count,
		"partitions", result.Partitions,
		"skipped", result.Skipped)

	return result, stderrors.Join(failures...)
}

// mapPartition fully drives one partition into a fresh set of accumulators.
func (r *Reducer) mapPartition(ctx context.Context, p Partition) (*local, error) {
	ctx = logging.ContextWithPartition(ctx, p.ID())
	wlog := logging.WithContext(ctx)

	reader, err := p.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			wlog.Warn("close partition", "error", cerr)
		}
	}()

	lc, err := newLocal(r.cfg)
	if err != nil {
		return nil, err
	}

	driver := stream.NewDriver(lc.variance, lc.min, lc.max)
	driver.SkipParseErrors(r.cfg.ParsePolicy == ParseSkip)
	if lc.sketch != nil {
		driver.OnStep(func(_ uint64, x float64, _ []float64) {
			lc.sketch.Update(x)
		})
	}

	if _, err := driver.Run(ctx, reader); err != nil {
		return nil, err
	}
	lc.skipped = driver.Skipped()
	return lc, nil
}

// fold merges all completed locals on the coordinator goroutine. Merge is
// associative and commutative, so slot order is irrelevant.
func (r *Reducer) fold(locals []*local) (*Result, error) {
	merged, err := newLocal(r.cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, lc := range locals {
		if lc == nil {
			continue // failed partition, no contribution
		}
		if err := merged.merge(lc); err != nil {
			return nil, err
		}
		result.Partitions++
		result.Skipped += lc.skipped
	}

	result.Count = merged.variance.Count()
	result.Snapshot = merged.variance.Snapshot("")
	if result.Count == 0 {
		return result, nil
	}

	result.Mean, _ = merged.variance.Mean()
	result.Variance, _ = merged.variance.Variance()
	result.Min, _ = merged.min.Min()
	result.Max, _ = merged.max.Max()

	if merged.sketch != nil {
		result.Percentiles = make(map[float64]float64, len(r.cfg.Percentiles))
		for _, p := range r.cfg.Percentiles {
			v, err := merged.sketch.Query(p)
			if err != nil {
				return nil, err
			}
			result.Percentiles[p] = v
		}
	}
	return result, nil
}

// local is one worker's accumulator set. Never shared between goroutines
// before the join boundary.
type local struct {
	variance *stats.RunningVariance
	min      *stats.RunningMin
	max      *stats.RunningMax
	sketch   *quantile.Sketch // nil when percentiles are disabled
	skipped  uint64
}

func newLocal(cfg Config) (*local, error) {
	lc := &local{
		variance: stats.NewRunningVariance(),
		min:      stats.NewRunningMin(),
		max:      stats.NewRunningMax(),
	}
	if len(cfg.Percentiles) > 0 {
		sketch, err := quantile.NewSketch(cfg.SketchAccuracy)
		if err != nil {
			return nil, err
		}
		lc.sketch = sketch
	}
	return lc, nil
}

func (l *local) merge(other *local) error {
	l.variance.Merge(other.variance)
	l.min.Merge(other.min)
	l.max.Merge(other.max)
	if l.sketch != nil && other.sketch != nil {
		if err := l.sketch.Merge(other.sketch); err != nil {
			return err
		}
	}
	return nil
}
