package quantile

import (
	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/Mifour/hexpresso/internal/errors"
)

// DefaultRelativeAccuracy is the DDSketch relative accuracy used when none
// is configured: quantile answers are within 1% of the true value.
const DefaultRelativeAccuracy = 0.01

// Sketch estimates percentiles approximately using DDSketch. Unlike
// Estimator it stays bounded on continuous high-cardinality streams, at the
// cost of a configurable relative error on the answers.
//
// Not safe for concurrent use; the reduce package gives each worker its own
// sketch and merges them at the join boundary.
type Sketch struct {
	sketch *ddsketch.DDSketch
	count  uint64
}

// NewSketch creates a sketch with the given relative accuracy (0 < accuracy < 1).
func NewSketch(relativeAccuracy float64) (*Sketch, error) {
	s, err := ddsketch.NewDefaultDDSketch(relativeAccuracy)
	if err != nil {
		return nil, errors.Wrap(err, "create ddsketch")
	}
	return &Sketch{sketch: s}, nil
}

// Update records one occurrence of x.
func (s *Sketch) Update(x float64) {
	if err := s.sketch.Add(x); err != nil {
		// Add only fails for non-finite input; NaN/Inf carry no quantile
		// information and are dropped.
		return
	}
	s.count++
}

// Count returns the number of values recorded.
func (s *Sketch) Count() uint64 {
	return s.count
}

// Query returns the approximate p-th percentile. Returns
// ErrInvalidPercentile for p outside [0, 100] and ErrNoData before the
// first Update.
func (s *Sketch) Query(p float64) (float64, error) {
	if p < 0 || p > 100 {
		return 0, errors.ErrInvalidPercentile
	}
	if s.count == 0 {
		return 0, errors.ErrNoData
	}
	v, err := s.sketch.GetValueAtQuantile(p / 100)
	if err != nil {
		return 0, errors.Wrap(err, "ddsketch quantile")
	}
	return v, nil
}

// Merge folds other into s. Both sketches must share the same relative
// accuracy. The other sketch is never mutated.
func (s *Sketch) Merge(other *Sketch) error {
	if other == nil || other.count == 0 {
		return nil
	}
	if err := s.sketch.MergeWith(other.sketch); err != nil {
		return errors.Wrap(err, "merge ddsketch")
	}
	s.count += other.count
	return nil
}
