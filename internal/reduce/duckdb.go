package reduce

import (
	"context"
	"database/sql"
	"io"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/Mifour/hexpresso/internal/errors"
)

// OpenDuckDB opens a DuckDB database for query-backed partitions. An empty
// path opens an in-memory database.
func OpenDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(err, "open duckdb")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping duckdb")
	}
	return db, nil
}

// QueryPartition reads values from a SQL query whose result has a single
// float64 column. Sharding a table into N disjoint queries (e.g. by key
// range or hash bucket) yields N independently readable partitions over the
// same database handle; database/sql serves them concurrently.
type QueryPartition struct {
	db    *sql.DB
	name  string
	query string
	args  []any
}

// NewQueryPartition creates a partition named name over the given query.
func NewQueryPartition(db *sql.DB, name, query string, args ...any) (*QueryPartition, error) {
	if db == nil || query == "" {
		return nil, errors.ErrInvalidPartition
	}
	return &QueryPartition{db: db, name: name, query: query, args: args}, nil
}

// ID returns the partition name.
func (p *QueryPartition) ID() string {
	return p.name
}

// Open executes the query and returns a reader over its rows.
func (p *QueryPartition) Open(ctx context.Context) (ValueReader, error) {
	rows, err := p.db.QueryContext(ctx, p.query, p.args...)
	if err != nil {
		return nil, &errors.PartitionError{Partition: p.name, Op: "open", Err: err}
	}
	return &queryReader{id: p.name, rows: rows}, nil
}

type queryReader struct {
	id   string
	rows *sql.Rows
}

func (r *queryReader) Next() (float64, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return 0, &errors.PartitionError{Partition: r.id, Op: "read", Err: err}
		}
		return 0, io.EOF
	}
	var v float64
	if err := r.rows.Scan(&v); err != nil {
		return 0, &errors.PartitionError{Partition: r.id, Op: "read", Err: err}
	}
	return v, nil
}

func (r *queryReader) Close() error {
	return r.rows.Close()
}
