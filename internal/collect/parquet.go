package collect

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/Mifour/hexpresso/internal/errors"
	"github.com/Mifour/hexpresso/internal/stats"
)

// SnapshotRow is the Parquet row shape for a persisted aggregate snapshot.
type SnapshotRow struct {
	Series     string  `parquet:"series,zstd"`
	Count      uint64  `parquet:"count"`
	Sum        float64 `parquet:"sum"`
	SumSquares float64 `parquet:"sum_squares"`
}

// snapshotToRow converts a snapshot to its Parquet row.
func snapshotToRow(s stats.Snapshot) SnapshotRow {
	return SnapshotRow{
		Series:     s.Series,
		Count:      s.Count,
		Sum:        s.Sum,
		SumSquares: s.SumSquares,
	}
}

// rowToSnapshot converts a Parquet row back to a snapshot.
func rowToSnapshot(r *SnapshotRow) stats.Snapshot {
	return stats.Snapshot{
		Series:     r.Series,
		Count:      r.Count,
		Sum:        r.Sum,
		SumSquares: r.SumSquares,
	}
}

// WriteSnapshots persists snapshots as a Zstd-compressed Parquet file.
func WriteSnapshots(path string, snapshots []stats.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}

	writer := parquet.NewGenericWriter[SnapshotRow](f, parquet.Compression(&parquet.Zstd))

	rows := make([]SnapshotRow, len(snapshots))
	for i, s := range snapshots {
		rows[i] = snapshotToRow(s)
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

// ReadSnapshots loads all snapshots from a Parquet file.
func ReadSnapshots(path string) ([]stats.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	defer f.Close()

	reader := parquet.NewGenericReader[SnapshotRow](f)
	defer reader.Close()

	rows := make([]SnapshotRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && n != len(rows) {
		return nil, errors.Wrap(err, "read rows")
	}

	snapshots := make([]stats.Snapshot, n)
	for i := 0; i < n; i++ {
		snapshots[i] = rowToSnapshot(&rows[i])
	}
	return snapshots, nil
}
