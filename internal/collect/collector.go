// Package collect implements the coordinator side of distributed merging:
// independent workers periodically ship snapshots of their local aggregates,
// and a Collector folds each delta into a running total per series.
//
// The transport that delivers snapshots is out of scope; snapshots can also
// be persisted to and recovered from Parquet files (see parquet.go), which
// doubles as the opaque serialized form.
package collect

import (
	"sort"
	"sync"

	"github.com/Mifour/hexpresso/internal/logging"
	"github.com/Mifour/hexpresso/internal/stats"
)

var log = logging.Component("collect")

// Collector accumulates snapshot deltas into per-series running totals.
//
// Unlike the map-phase accumulators, a Collector is a shared endpoint that
// may receive snapshots from many goroutines, so it carries its own lock.
type Collector struct {
	mu     sync.RWMutex
	totals map[string]stats.Snapshot
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{totals: make(map[string]stats.Snapshot)}
}

// Ingest merges one snapshot delta into the running total for its series.
// Empty snapshots are ignored.
func (c *Collector) Ingest(s stats.Snapshot) {
	if s.IsEmpty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total, ok := c.totals[s.Series]
	if !ok {
		total = stats.Snapshot{Series: s.Series}
	}
	c.totals[s.Series] = stats.MergeSnapshots(total, s)

	log.Debug("snapshot ingested", "series", s.Series, "delta_count", s.Count)
}

// Total returns the running total for a series.
func (c *Collector) Total(series string) (stats.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.totals[series]
	return s, ok
}

// Series returns all known series names, sorted.
func (c *Collector) Series() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.totals))
	for name := range c.totals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Totals returns the running totals for all series, ordered by series name.
func (c *Collector) Totals() []stats.Snapshot {
	names := c.Series()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]stats.Snapshot, 0, len(names))
	for _, name := range names {
		out = append(out, c.totals[name])
	}
	return out
}
