package quantile

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Mifour/hexpresso/internal/errors"
)

func TestEstimator_MedianTieBreak(t *testing.T) {
	e := New[int]()
	for _, x := range []int{1, 2, 2, 3, 4, 4, 4, 5} {
		e.Update(x)
	}

	// Cumulative share reaches exactly 50% at value 3 (4 of 8 occurrences),
	// so the first-crossing rule answers 3, not 4.
	got, err := e.Query(50)
	if err != nil {
		t.Fatalf("Query(50): %v", err)
	}
	if got != 3 {
		t.Errorf("expected median=3, got %d", got)
	}
}

func TestEstimator_Boundaries(t *testing.T) {
	e := New[float64]()
	for _, x := range []float64{9.5, -2, 4, 4, 7} {
		e.Update(x)
	}

	if got, _ := e.Query(0); got != -2 {
		t.Errorf("Query(0): expected minimum -2, got %f", got)
	}
	if got, _ := e.Query(100); got != 9.5 {
		t.Errorf("Query(100): expected maximum 9.5, got %f", got)
	}
}

func TestEstimator_Errors(t *testing.T) {
	e := New[int]()

	if _, err := e.Query(50); !errors.IsNoData(err) {
		t.Errorf("expected ErrNoData on empty estimator, got %v", err)
	}

	e.Update(1)

	for _, p := range []float64{-0.001, 100.001, 150, -40} {
		if _, err := e.Query(p); !errors.IsInvalidPercentile(err) {
			t.Errorf("Query(%f): expected ErrInvalidPercentile, got %v", p, err)
		}
	}
}

func TestEstimator_OrderedStringDomain(t *testing.T) {
	e := New[string]()
	for _, s := range []string{"b", "a", "c", "b", "b"} {
		e.Update(s)
	}

	if e.Distinct() != 3 {
		t.Errorf("expected 3 distinct values, got %d", e.Distinct())
	}
	if got, _ := e.Query(50); got != "b" {
		t.Errorf("expected median %q, got %q", "b", got)
	}
}

func TestEstimator_FrequencyInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	e := New[int]()
	const n = 10000
	for i := 0; i < n; i++ {
		// Deliberately low cardinality: 32 distinct values over 10k updates.
		e.Update(rng.Intn(32))
	}

	if e.Count() != n {
		t.Errorf("expected total=%d, got %d", n, e.Count())
	}
	if e.Distinct() > 32 {
		t.Errorf("expected at most 32 distinct values, got %d", e.Distinct())
	}
}

func TestEstimator_Merge(t *testing.T) {
	a := New[int]()
	for _, x := range []int{1, 2, 2, 3} {
		a.Update(x)
	}
	b := New[int]()
	for _, x := range []int{4, 4, 4, 5} {
		b.Update(x)
	}

	a.Merge(b)

	if a.Count() != 8 {
		t.Fatalf("expected merged total=8, got %d", a.Count())
	}
	if got, _ := a.Query(50); got != 3 {
		t.Errorf("expected merged median=3, got %d", got)
	}
	if got, _ := a.Query(100); got != 5 {
		t.Errorf("expected merged maximum=5, got %d", got)
	}

	// The merged-from side must be untouched.
	if b.Count() != 4 {
		t.Errorf("merge mutated its argument: total=%d", b.Count())
	}
}

func TestSketch_ApproximateQuantiles(t *testing.T) {
	s, err := NewSketch(DefaultRelativeAccuracy)
	if err != nil {
		t.Fatalf("NewSketch: %v", err)
	}

	for i := 1; i <= 1000; i++ {
		s.Update(float64(i))
	}

	for _, tc := range []struct {
		p    float64
		want float64
	}{
		{50, 500},
		{90, 900},
		{99, 990},
	} {
		got, err := s.Query(tc.p)
		if err != nil {
			t.Fatalf("Query(%f): %v", tc.p, err)
		}
		// 1% relative accuracy plus a little slack for rank rounding.
		if math.Abs(got-tc.want)/tc.want > 0.02 {
			t.Errorf("Query(%f): expected near %f, got %f", tc.p, tc.want, got)
		}
	}
}

func TestSketch_ErrorsAndMerge(t *testing.T) {
	s, err := NewSketch(DefaultRelativeAccuracy)
	if err != nil {
		t.Fatalf("NewSketch: %v", err)
	}

	if _, err := s.Query(50); !errors.IsNoData(err) {
		t.Errorf("expected ErrNoData on empty sketch, got %v", err)
	}
	s.Update(1)
	if _, err := s.Query(101); !errors.IsInvalidPercentile(err) {
		t.Errorf("expected ErrInvalidPercentile, got %v", err)
	}

	other, err := NewSketch(DefaultRelativeAccuracy)
	if err != nil {
		t.Fatalf("NewSketch: %v", err)
	}
	for i := 0; i < 99; i++ {
		other.Update(100)
	}

	if err := s.Merge(other); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if s.Count() != 100 {
		t.Errorf("expected merged count=100, got %d", s.Count())
	}
	got, err := s.Query(90)
	if err != nil {
		t.Fatalf("Query(90): %v", err)
	}
	if math.Abs(got-100)/100 > 0.02 {
		t.Errorf("expected p90 near 100, got %f", got)
	}
}
