package stats

import "github.com/Mifour/hexpresso/internal/errors"

// RunningVariance maintains running population variance (and mean) of a
// stream from three sufficient statistics: count, sum, and sum of squares.
//
// The incremental formula is algebraically exact but accumulates more
// floating-point rounding error than a two-pass batch computation; callers
// comparing against a batch oracle should allow a relative tolerance on the
// order of 1e-6 for well-conditioned data. Values much larger than their
// spread make it worse (catastrophic cancellation in sumSquares - n*mean²).
//
// The zero value is ready to use and is the identity element for Merge.
type RunningVariance struct {
	count      uint64
	sum        float64
	sumSquares float64
}

// NewRunningVariance creates an empty RunningVariance.
func NewRunningVariance() *RunningVariance {
	return &RunningVariance{}
}

// Update folds one value into the accumulator and returns the population
// variance over everything seen so far. O(1); never re-scans prior values.
func (v *RunningVariance) Update(x float64) float64 {
	v.count++
	v.sum += x
	v.sumSquares += x * x
	return v.variance()
}

// Count returns the number of values observed.
func (v *RunningVariance) Count() uint64 {
	return v.count
}

// Mean returns the current mean. Returns ErrNoData before the first Update.
func (v *RunningVariance) Mean() (float64, error) {
	if v.count == 0 {
		return 0, errors.ErrNoData
	}
	return v.sum / float64(v.count), nil
}

// Variance returns the current population variance (divide by count, not
// count-1). Returns ErrNoData before the first Update.
func (v *RunningVariance) Variance() (float64, error) {
	if v.count == 0 {
		return 0, errors.ErrNoData
	}
	return v.variance(), nil
}

// variance assumes count > 0.
func (v *RunningVariance) variance() float64 {
	n := float64(v.count)
	mean := v.sum / n
	return (v.sumSquares - 2*mean*v.sum + n*mean*mean) / n
}

// Merge folds other into v as if v had also observed other's values.
// Field-wise addition of the sufficient statistics makes the merge exact:
// any merge order over any partitioning yields the same result up to
// floating-point rounding. The other accumulator is never mutated.
func (v *RunningVariance) Merge(other *RunningVariance) {
	if other == nil {
		return
	}
	v.count += other.count
	v.sum += other.sum
	v.sumSquares += other.sumSquares
}

// Snapshot captures the sufficient statistics for serialization or shipping
// to a remote collector. Series labels the stream the snapshot belongs to.
func (v *RunningVariance) Snapshot(series string) Snapshot {
	return Snapshot{
		Series:     series,
		Count:      v.count,
		Sum:        v.sum,
		SumSquares: v.sumSquares,
	}
}

// FromSnapshot reconstructs an accumulator from a snapshot's fields.
func FromSnapshot(s Snapshot) *RunningVariance {
	return &RunningVariance{
		count:      s.Count,
		sum:        s.Sum,
		sumSquares: s.SumSquares,
	}
}
