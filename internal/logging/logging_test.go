package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWithHandler(slog.NewTextHandler(&buf, nil))
	return &buf
}

func TestComponent(t *testing.T) {
	buf := capture(t)

	Component("reduce").Info("started")

	if out := buf.String(); !strings.Contains(out, "component=reduce") {
		t.Errorf("expected component attribute, got %q", out)
	}
}

func TestWithContext(t *testing.T) {
	buf := capture(t)

	ctx := ContextWithPartition(context.Background(), "shard-7")
	ctx = ContextWithRunID(ctx, 42)

	WithContext(ctx).Info("worker done")

	out := buf.String()
	if !strings.Contains(out, "partition=shard-7") {
		t.Errorf("expected partition attribute, got %q", out)
	}
	if !strings.Contains(out, "run_id=42") {
		t.Errorf("expected run_id attribute, got %q", out)
	}
}

func TestWithContext_PlainContext(t *testing.T) {
	buf := capture(t)

	WithContext(context.Background()).Info("no scope")

	out := buf.String()
	if strings.Contains(out, "partition=") || strings.Contains(out, "run_id=") {
		t.Errorf("expected no scope attributes, got %q", out)
	}
}
