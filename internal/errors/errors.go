// Package errors consolidates error definitions for the hexpresso engine.
//
// This package provides:
// - Sentinel errors for caller-input error conditions
// - Typed errors carrying partition context for worker-side failures
// - Error category checking functions
// - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrNoData is returned when a statistic is requested from an aggregate
	// or estimator that has seen zero observations.
	ErrNoData = errors.New("no data")

	// ErrInvalidPercentile is returned when a percentile query falls
	// outside the [0, 100] range.
	ErrInvalidPercentile = errors.New("percentile out of range [0, 100]")

	// ErrInvalidPartition is returned when a partition cannot be
	// constructed, e.g. an empty path or a nil database handle.
	ErrInvalidPartition = errors.New("invalid partition")

	// ErrNoPartitions is returned when a reduce is started with an empty
	// partition set.
	ErrNoPartitions = errors.New("no partitions")

	// ErrInvalidConfig is returned for configuration values outside their
	// documented ranges.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ============================================================================
// Typed errors with partition context
// ============================================================================

// ParseError reports a source value that could not be converted to a float.
// It carries enough context to locate the offending value: the partition it
// came from (empty for non-partitioned streams), the 1-based line number,
// and the raw token.
type ParseError struct {
	Partition string
	Line      int
	Token     string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Partition == "" {
		return fmt.Sprintf("parse value %q at line %d: %v", e.Token, e.Line, e.Err)
	}
	return fmt.Sprintf("partition %s: parse value %q at line %d: %v", e.Partition, e.Token, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PartitionError reports that a data segment could not be read. It wraps the
// underlying I/O or query failure together with the partition identifier so
// the coordinator can report which segment failed without aborting siblings.
type PartitionError struct {
	Partition string
	Op        string // "open", "read", "close"
	Err       error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %s: %s: %v", e.Partition, e.Op, e.Err)
}

func (e *PartitionError) Unwrap() error { return e.Err }

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// New is a convenience wrapper for errors.New
var New = errors.New

// IsNoData returns true if err indicates an empty aggregate or estimator.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsInvalidPercentile returns true for out-of-range percentile queries.
func IsInvalidPercentile(err error) bool {
	return errors.Is(err, ErrInvalidPercentile)
}

// IsCallerInput returns true if err is a caller-input error: a condition the
// caller can fix synchronously, never worth retrying internally.
func IsCallerInput(err error) bool {
	return errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrInvalidPercentile) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsParseError returns true if err (or any error it wraps) is a value-level
// parse failure.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsPartitionError returns true if err originated in reading a data segment.
func IsPartitionError(err error) bool {
	var pe *PartitionError
	return errors.As(err, &pe)
}

// AsParseError extracts the ParseError from an error chain, if present.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	ok := errors.As(err, &pe)
	return pe, ok
}

// AsPartitionError extracts the PartitionError from an error chain, if present.
func AsPartitionError(err error) (*PartitionError, bool) {
	var pe *PartitionError
	ok := errors.As(err, &pe)
	return pe, ok
}

// ============================================================================
// Wrapping utilities
// ============================================================================

// Wrap annotates err with a message, preserving the chain for errors.Is/As.
// Returns nil if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
