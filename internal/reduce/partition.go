// Package reduce runs map-reduce statistics over partitioned data sources.
//
// The map phase drives one worker goroutine per partition, each building its
// own accumulators with no shared mutable state. The reduce phase folds the
// per-partition results into one global result on the coordinating
// goroutine, using the exact merge of the stats package; merge order does
// not affect the outcome.
package reduce

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Mifour/hexpresso/internal/errors"
	"github.com/Mifour/hexpresso/internal/stream"
)

// ValueReader is an opened partition: a value source that must be closed
// when the worker is done with it.
type ValueReader interface {
	stream.Source
	Close() error
}

// Partition is one independently readable segment of a data source.
// Implementations must be safe to open concurrently with other partitions.
type Partition interface {
	// ID identifies the partition in logs and error reports.
	ID() string

	// Open prepares the partition for a single sequential read.
	Open(ctx context.Context) (ValueReader, error)
}

// =============================================================================
// Line-file partition
// =============================================================================

// FilePartition reads a text file containing one floating-point value per
// line. Blank lines are ignored.
type FilePartition struct {
	Path string
}

// NewFilePartition creates a partition over the file at path.
func NewFilePartition(path string) (*FilePartition, error) {
	if path == "" {
		return nil, errors.ErrInvalidPartition
	}
	return &FilePartition{Path: path}, nil
}

// ID returns the file name.
func (p *FilePartition) ID() string {
	return filepath.Base(p.Path)
}

// Open opens the file for reading.
func (p *FilePartition) Open(ctx context.Context) (ValueReader, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, &errors.PartitionError{Partition: p.ID(), Op: "open", Err: err}
	}
	return &fileReader{
		ReaderSource: stream.NewPartitionReaderSource(f, p.ID()),
		file:         f,
	}, nil
}

type fileReader struct {
	*stream.ReaderSource
	file *os.File
}

func (r *fileReader) Close() error {
	return r.file.Close()
}

// FilePartitions builds one partition per path.
func FilePartitions(paths []string) ([]Partition, error) {
	parts := make([]Partition, 0, len(paths))
	for _, path := range paths {
		p, err := NewFilePartition(path)
		if err != nil {
			return nil, errors.Wrapf(err, "partition %q", path)
		}
		parts = append(parts, p)
	}
	return parts, nil
}
