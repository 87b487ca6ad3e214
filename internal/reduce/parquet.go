package reduce

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/Mifour/hexpresso/internal/errors"
)

// ValueRow is the Parquet row shape for partitioned value files: a single
// float64 column named "value".
type ValueRow struct {
	Value float64 `parquet:"value"`
}

// parquetReadBatch is the number of rows pulled from the Parquet reader at
// a time. Values still reach the updaters one at a time.
const parquetReadBatch = 1024

// ParquetPartition reads values from a Parquet file of ValueRow records.
type ParquetPartition struct {
	Path string
}

// NewParquetPartition creates a partition over the Parquet file at path.
func NewParquetPartition(path string) (*ParquetPartition, error) {
	if path == "" {
		return nil, errors.ErrInvalidPartition
	}
	return &ParquetPartition{Path: path}, nil
}

// ID returns the file name.
func (p *ParquetPartition) ID() string {
	return filepath.Base(p.Path)
}

// Open opens the Parquet file for a sequential row scan.
func (p *ParquetPartition) Open(ctx context.Context) (ValueReader, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, &errors.PartitionError{Partition: p.ID(), Op: "open", Err: err}
	}
	return &parquetReader{
		id:     p.ID(),
		file:   f,
		reader: parquet.NewGenericReader[ValueRow](f),
		buf:    make([]ValueRow, parquetReadBatch),
	}, nil
}

type parquetReader struct {
	id     string
	file   *os.File
	reader *parquet.GenericReader[ValueRow]
	buf    []ValueRow
	pos    int
	n      int
	done   bool
}

// Next returns the next value, refilling the row buffer as needed.
func (r *parquetReader) Next() (float64, error) {
	if r.pos >= r.n {
		if r.done {
			return 0, io.EOF
		}
		n, err := r.reader.Read(r.buf)
		if err == io.EOF {
			r.done = true
		} else if err != nil {
			return 0, &errors.PartitionError{Partition: r.id, Op: "read", Err: err}
		}
		if n == 0 {
			return 0, io.EOF
		}
		r.pos, r.n = 0, n
	}
	v := r.buf[r.pos].Value
	r.pos++
	return v, nil
}

func (r *parquetReader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// WriteValueFile writes values as a ValueRow Parquet file, for building
// partitioned datasets. Zstd-compressed like the rest of the engine's
// Parquet output.
func WriteValueFile(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}

	writer := parquet.NewGenericWriter[ValueRow](f, parquet.Compression(&parquet.Zstd))

	rows := make([]ValueRow, len(values))
	for i, v := range values {
		rows[i] = ValueRow{Value: v}
	}

	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		f.Close()
		return errors.Wrap(err, "write rows")
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return errors.Wrap(err, "close writer")
	}
	return f.Close()
}
