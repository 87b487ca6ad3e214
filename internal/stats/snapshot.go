package stats

import "github.com/Mifour/hexpresso/internal/errors"

// Snapshot is the serializable form of an accumulator's sufficient
// statistics. It is the unit shipped across process or network boundaries:
// a remote worker periodically sends its snapshot to a collector, which
// merges deltas into a running total. The encoding is left to the transport
// layer (the collect package persists snapshots as Parquet rows).
type Snapshot struct {
	Series     string
	Count      uint64
	Sum        float64
	SumSquares float64
}

// MergeSnapshots combines two snapshots built over disjoint data into one
// covering the union. Pure function: neither argument is mutated. The Series
// label of a is kept.
func MergeSnapshots(a, b Snapshot) Snapshot {
	return Snapshot{
		Series:     a.Series,
		Count:      a.Count + b.Count,
		Sum:        a.Sum + b.Sum,
		SumSquares: a.SumSquares + b.SumSquares,
	}
}

// IsEmpty returns true if the snapshot covers zero observations.
func (s Snapshot) IsEmpty() bool {
	return s.Count == 0
}

// Mean returns the mean the snapshot encodes. Returns ErrNoData if empty.
func (s Snapshot) Mean() (float64, error) {
	if s.Count == 0 {
		return 0, errors.ErrNoData
	}
	return s.Sum / float64(s.Count), nil
}

// Variance returns the population variance the snapshot encodes.
// Returns ErrNoData if empty.
func (s Snapshot) Variance() (float64, error) {
	if s.Count == 0 {
		return 0, errors.ErrNoData
	}
	n := float64(s.Count)
	mean := s.Sum / n
	return (s.SumSquares - 2*mean*s.Sum + n*mean*mean) / n, nil
}
