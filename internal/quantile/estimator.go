// Package quantile provides percentile estimation over value streams.
//
// Two structures are offered:
//
//   - Estimator: exact percentiles from a frequency table over the distinct
//     values seen. Memory grows with cardinality, not stream length, so it
//     fits domains where the number of distinct values is small relative to
//     the total volume (status codes, bucketed latencies, enum-like data).
//   - Sketch: approximate percentiles via DDSketch, for high-cardinality
//     continuous domains where a frequency table would not stay bounded.
package quantile

import (
	"cmp"
	"slices"

	"github.com/Mifour/hexpresso/internal/errors"
)

// Estimator estimates percentiles exactly from a frequency table plus an
// ordered index over the distinct values observed.
//
// The ordered index is a sorted slice maintained by binary-search insertion:
// O(log k) to locate plus O(k) element shift on first occurrence of a new
// value, k being the distinct-value count. Entries are never removed.
//
// Estimator state is per-instance only and not safe for concurrent use.
type Estimator[T cmp.Ordered] struct {
	freq   map[T]uint64
	sorted []T // distinct values, ascending
	total  uint64
}

// New creates an empty estimator.
func New[T cmp.Ordered]() *Estimator[T] {
	return &Estimator[T]{freq: make(map[T]uint64)}
}

// Update records one occurrence of x. First occurrences are inserted into
// the ordered index.
func (e *Estimator[T]) Update(x T) {
	if _, seen := e.freq[x]; !seen {
		i, _ := slices.BinarySearch(e.sorted, x)
		e.sorted = slices.Insert(e.sorted, i, x)
	}
	e.freq[x]++
	e.total++
}

// Count returns the total number of occurrences recorded.
func (e *Estimator[T]) Count() uint64 {
	return e.total
}

// Distinct returns the number of distinct values recorded.
func (e *Estimator[T]) Distinct() int {
	return len(e.sorted)
}

// Query returns the p-th percentile: walking the distinct values upward, the
// first value at which the cumulative share of occurrences reaches or
// exceeds p percent. That tie-break means Query(50) over [1,2,2,3,4,4,4,5]
// returns 3 (cumulative share hits exactly 50% there), Query(0) returns the
// minimum, and Query(100) the maximum.
//
// Returns ErrInvalidPercentile for p outside [0, 100] and ErrNoData before
// the first Update. O(k) worst case.
func (e *Estimator[T]) Query(p float64) (T, error) {
	var zero T
	if p < 0 || p > 100 {
		return zero, errors.ErrInvalidPercentile
	}
	if e.total == 0 {
		return zero, errors.ErrNoData
	}

	var cumulative uint64
	for _, v := range e.sorted {
		cumulative += e.freq[v]
		if float64(cumulative)/float64(e.total)*100 >= p {
			return v, nil
		}
	}
	// Unreachable barring float rounding on the final comparison.
	return e.sorted[len(e.sorted)-1], nil
}

// Merge folds other's frequency table into e. Both estimators must cover the
// same value domain. The other estimator is never mutated.
func (e *Estimator[T]) Merge(other *Estimator[T]) {
	if other == nil {
		return
	}
	for _, v := range other.sorted {
		n := other.freq[v]
		if _, seen := e.freq[v]; !seen {
			i, _ := slices.BinarySearch(e.sorted, v)
			e.sorted = slices.Insert(e.sorted, i, v)
		}
		e.freq[v] += n
		e.total += n
	}
}
