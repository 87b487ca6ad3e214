package stats

import (
	"math"

	"github.com/Mifour/hexpresso/internal/errors"
)

// RunningMax tracks the maximum value observed on a stream.
type RunningMax struct {
	count uint64
	max   float64
}

// NewRunningMax creates an empty RunningMax.
func NewRunningMax() *RunningMax {
	return &RunningMax{max: math.Inf(-1)}
}

// Update folds one value in and returns the maximum seen so far.
func (m *RunningMax) Update(x float64) float64 {
	if m.count == 0 {
		// Zero-value construction: seed the extremum on first observation.
		m.max = math.Inf(-1)
	}
	m.count++
	if x > m.max {
		m.max = x
	}
	return m.max
}

// Count returns the number of values observed.
func (m *RunningMax) Count() uint64 {
	return m.count
}

// Max returns the maximum observed. Returns ErrNoData before the first Update.
func (m *RunningMax) Max() (float64, error) {
	if m.count == 0 {
		return 0, errors.ErrNoData
	}
	return m.max, nil
}

// Merge folds other into m. The other accumulator is never mutated.
func (m *RunningMax) Merge(other *RunningMax) {
	if other == nil || other.count == 0 {
		return
	}
	if m.count == 0 || other.max > m.max {
		m.max = other.max
	}
	m.count += other.count
}

// RunningMin tracks the minimum value observed on a stream.
type RunningMin struct {
	count uint64
	min   float64
}

// NewRunningMin creates an empty RunningMin.
func NewRunningMin() *RunningMin {
	return &RunningMin{min: math.Inf(1)}
}

// Update folds one value in and returns the minimum seen so far.
func (m *RunningMin) Update(x float64) float64 {
	if m.count == 0 {
		m.min = math.Inf(1)
	}
	m.count++
	if x < m.min {
		m.min = x
	}
	return m.min
}

// Count returns the number of values observed.
func (m *RunningMin) Count() uint64 {
	return m.count
}

// Min returns the minimum observed. Returns ErrNoData before the first Update.
func (m *RunningMin) Min() (float64, error) {
	if m.count == 0 {
		return 0, errors.ErrNoData
	}
	return m.min, nil
}

// Merge folds other into m. The other accumulator is never mutated.
func (m *RunningMin) Merge(other *RunningMin) {
	if other == nil || other.count == 0 {
		return
	}
	if m.count == 0 || other.min < m.min {
		m.min = other.min
	}
	m.count += other.count
}
