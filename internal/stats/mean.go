package stats

import "github.com/Mifour/hexpresso/internal/errors"

// RunningMean maintains the running arithmetic mean of a stream.
//
// The zero value is ready to use and is the identity element for Merge.
type RunningMean struct {
	count uint64
	sum   float64
}

// NewRunningMean creates an empty RunningMean.
func NewRunningMean() *RunningMean {
	return &RunningMean{}
}

// Update folds one value into the accumulator and returns the mean over
// everything seen so far. O(1); never re-scans prior values.
func (m *RunningMean) Update(x float64) float64 {
	m.count++
	m.sum += x
	return m.sum / float64(m.count)
}

// Count returns the number of values observed.
func (m *RunningMean) Count() uint64 {
	return m.count
}

// Mean returns the current mean. Returns ErrNoData before the first Update.
func (m *RunningMean) Mean() (float64, error) {
	if m.count == 0 {
		return 0, errors.ErrNoData
	}
	return m.sum / float64(m.count), nil
}

// Merge folds other into m as if m had also observed other's values.
// The other accumulator is read but never mutated.
func (m *RunningMean) Merge(other *RunningMean) {
	if other == nil {
		return
	}
	m.count += other.count
	m.sum += other.sum
}
