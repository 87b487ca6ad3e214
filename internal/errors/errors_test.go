package errors

import (
	"io"
	"testing"
)

func TestCategoryHelpers(t *testing.T) {
	noData := Wrap(ErrNoData, "variance")
	badPercentile := Wrapf(ErrInvalidPercentile, "percentile %v", 150.0)

	if !IsNoData(noData) {
		t.Error("expected IsNoData for wrapped ErrNoData")
	}
	if IsNoData(badPercentile) {
		t.Error("IsNoData must not match ErrInvalidPercentile")
	}

	if !IsInvalidPercentile(badPercentile) {
		t.Error("expected IsInvalidPercentile for wrapped ErrInvalidPercentile")
	}
	if IsInvalidPercentile(noData) {
		t.Error("IsInvalidPercentile must not match ErrNoData")
	}

	for _, err := range []error{noData, badPercentile, ErrInvalidConfig} {
		if !IsCallerInput(err) {
			t.Errorf("expected IsCallerInput for %v", err)
		}
	}
	if IsCallerInput(ErrNoPartitions) {
		t.Error("ErrNoPartitions is not a caller-input category member")
	}
}

func TestTypedErrors(t *testing.T) {
	parse := Wrap(&ParseError{Partition: "shard-1", Line: 3, Token: "x"}, "worker")
	read := Wrap(&PartitionError{Partition: "shard-2", Op: "open", Err: io.ErrUnexpectedEOF}, "worker")

	if !IsParseError(parse) || IsParseError(read) {
		t.Error("IsParseError must match exactly the parse failure")
	}
	if !IsPartitionError(read) || IsPartitionError(parse) {
		t.Error("IsPartitionError must match exactly the read failure")
	}

	pe, ok := AsParseError(parse)
	if !ok || pe.Partition != "shard-1" || pe.Line != 3 {
		t.Errorf("unexpected extracted ParseError: %+v", pe)
	}
	re, ok := AsPartitionError(read)
	if !ok || re.Partition != "shard-2" || re.Op != "open" {
		t.Errorf("unexpected extracted PartitionError: %+v", re)
	}
	if !Is(read, io.ErrUnexpectedEOF) {
		t.Error("expected the underlying cause to stay reachable")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) must return nil")
	}
	if Wrapf(nil, "noop %d", 1) != nil {
		t.Error("Wrapf(nil) must return nil")
	}
}
