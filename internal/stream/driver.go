package stream

import (
	"context"
	"io"

	"github.com/Mifour/hexpresso/internal/errors"
)

// Updater is the uniform update contract: fold one value in, return the
// newly computed statistic. All accumulators in the stats package satisfy it.
type Updater interface {
	Update(x float64) float64
}

// Observer is called after each value has been applied to every updater.
// step is 1-based; results holds each updater's latest computed value in
// registration order and is reused between calls, so observers must copy it
// if they retain it.
type Observer func(step uint64, x float64, results []float64)

// Driver feeds a Source into one or more Updaters, one value at a time.
// It holds no buffer beyond the single in-flight value, so per-value cost
// stays O(1) regardless of how values arrive.
type Driver struct {
	updaters  []Updater
	observer  Observer
	skipParse bool
	skipped   uint64
	results   []float64
}

// NewDriver creates a driver over the given updaters.
func NewDriver(updaters ...Updater) *Driver {
	return &Driver{
		updaters: updaters,
		results:  make([]float64, len(updaters)),
	}
}

// OnStep registers an observer invoked after every applied value. Useful for
// live monitoring of the running statistic.
func (d *Driver) OnStep(obs Observer) {
	d.observer = obs
}

// SkipParseErrors switches malformed-value handling from abort (default) to
// skip-and-count. The policy choice belongs to the integration point; the
// reduce package wires it from configuration.
func (d *Driver) SkipParseErrors(skip bool) {
	d.skipParse = skip
}

// Skipped returns the number of malformed values dropped so far when the
// skip policy is active.
func (d *Driver) Skipped() uint64 {
	return d.skipped
}

// Run pulls values from src until io.EOF, applying each to every updater in
// registration order. Returns the number of values applied.
//
// Cancellation is checked between steps, never mid-value, so an aborted run
// leaves every updater in a consistent state covering a prefix of the
// stream. A parse error aborts the run unless SkipParseErrors(true) was set;
// any other source error always aborts.
func (d *Driver) Run(ctx context.Context, src Source) (uint64, error) {
	var applied uint64

	for {
		if err := ctx.Err(); err != nil {
			return applied, err
		}

		x, err := src.Next()
		if err != nil {
			if err == io.EOF {
				return applied, nil
			}
			if d.skipParse && errors.IsParseError(err) {
				d.skipped++
				continue
			}
			return applied, err
		}

		for i, u := range d.updaters {
			d.results[i] = u.Update(x)
		}
		applied++

		if d.observer != nil {
			d.observer(applied, x, d.results)
		}
	}
}
