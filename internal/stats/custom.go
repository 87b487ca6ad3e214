package stats

import "github.com/Mifour/hexpresso/internal/errors"

// Custom adapts an arbitrary binary fold into the Update contract, so
// user-defined reducers can be driven exactly like the built-in accumulators.
//
// The fold must be a pure function of (accumulator, value); if it is also
// associative over partitions the result can be merged with MergeWith,
// otherwise Custom is a single-stream reducer only.
type Custom struct {
	count uint64
	acc   float64
	fold  func(acc, x float64) float64
}

// NewCustom creates a reducer seeded with seed, folding each value with fold.
//
// Example (sum of absolute values):
//
//	c := stats.NewCustom(0, func(acc, x float64) float64 { return acc + math.Abs(x) })
func NewCustom(seed float64, fold func(acc, x float64) float64) *Custom {
	return &Custom{acc: seed, fold: fold}
}

// Update folds one value in and returns the current accumulator value.
func (c *Custom) Update(x float64) float64 {
	c.count++
	c.acc = c.fold(c.acc, x)
	return c.acc
}

// Count returns the number of values observed.
func (c *Custom) Count() uint64 {
	return c.count
}

// Value returns the current accumulator value. Returns ErrNoData before the
// first Update.
func (c *Custom) Value() (float64, error) {
	if c.count == 0 {
		return 0, errors.ErrNoData
	}
	return c.acc, nil
}

// MergeWith combines other into c using combine, which must express how two
// partition-level accumulator values join (e.g. addition for a sum fold).
// The other reducer is never mutated.
func (c *Custom) MergeWith(other *Custom, combine func(a, b float64) float64) {
	if other == nil || other.count == 0 {
		return
	}
	if c.count == 0 {
		c.acc = other.acc
	} else {
		c.acc = combine(c.acc, other.acc)
	}
	c.count += other.count
}
