// Package duck serves property options from a data file loaded into an
// in-memory DuckDB database. Each property backed by a column gets the
// distinct values of that column matching the search text.
package duck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	_ "github.com/marcboeker/go-duckdb" // registers the duckdb driver

	"github.com/oakwood-commons/fxed/pkg/filter"
)

// ErrNotLoaded is returned by lookups before a data file has been loaded.
var ErrNotLoaded = errors.New("no data file loaded")

// DefaultLimit caps the number of distinct values returned per lookup.
const DefaultLimit = 50

const tableName = "fxed_data"

// Source is a DuckDB-backed option source.
type Source struct {
	db    *sql.DB
	log   logr.Logger
	limit int

	mu       sync.RWMutex
	filename string
	columns  map[string]string
}

// New opens an in-memory database. A limit of zero or less uses DefaultLimit.
func New(lgr logr.Logger, limit int) (*Source, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Source{db: db, log: lgr, limit: limit}, nil
}

// Close closes the database.
func (s *Source) Close() error {
	return s.db.Close()
}

// Load replaces the table with the contents of path. CSV, JSON (array or
// newline delimited) and Parquet files are recognized by extension.
func (s *Source) Load(ctx context.Context, path string) error {
	reader, err := readerFor(path)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s(%s)", tableName, reader, quoteLiteral(path))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	cols, err := s.describe(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.filename = path
	s.columns = cols
	s.mu.Unlock()
	s.log.V(1).Info("data file loaded", "file", path, "columns", len(cols))
	return nil
}

func readerFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return "read_csv_auto", nil
	case ".json", ".ndjson", ".jsonl":
		return "read_json_auto", nil
	case ".parquet":
		return "read_parquet", nil
	}
	return "", fmt.Errorf("unsupported data file %q: expected csv, tsv, json, ndjson, jsonl or parquet", path)
}

func (s *Source) describe(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ?", tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols[name] = typ
	}
	return cols, rows.Err()
}

// Filename returns the loaded file, or "".
func (s *Source) Filename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename
}

// Columns returns the column names of the loaded file, sorted.
func (s *Source) Columns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.columns))
	for name := range s.columns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ColumnType returns the DuckDB type of a column.
func (s *Source) ColumnType(column string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.columns[column]
	return t, ok
}

// PropertyType maps the column's DuckDB type onto a filter property type.
func (s *Source) PropertyType(column string) filter.PropertyType {
	t, _ := s.ColumnType(column)
	t = strings.ToUpper(t)
	switch {
	case t == "BOOLEAN":
		return filter.TypeBoolean
	case strings.HasPrefix(t, "DATE"), strings.HasPrefix(t, "TIMESTAMP"):
		return filter.TypeDate
	case strings.Contains(t, "INT"), strings.HasPrefix(t, "DECIMAL"), t == "DOUBLE", t == "FLOAT", t == "REAL":
		return filter.TypeNumber
	}
	return filter.TypeString
}

// Distinct returns up to the configured limit of distinct, non-null values of
// column whose text form contains search, case-insensitively, in sorted order.
func (s *Source) Distinct(ctx context.Context, column, search string) ([]any, error) {
	s.mu.RLock()
	_, known := s.columns[column]
	loaded := s.columns != nil
	s.mu.RUnlock()
	if !loaded {
		return nil, ErrNotLoaded
	}
	if !known {
		return nil, fmt.Errorf("unknown column %q", column)
	}

	col := quoteIdent(column)
	query := fmt.Sprintf(
		`SELECT DISTINCT CAST(%[1]s AS VARCHAR) AS v FROM %[2]s WHERE %[1]s IS NOT NULL AND CAST(%[1]s AS VARCHAR) ILIKE ? ESCAPE '\' ORDER BY v LIMIT %[3]d`,
		col, tableName, s.limit,
	)
	rows, err := s.db.QueryContext(ctx, query, "%"+escapeLike(search)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", column, err)
	}
	return out, nil
}

// Options returns an async option source over column.
func (s *Source) Options(column string) filter.AsyncOptions {
	return func(ctx context.Context, search string) ([]any, error) {
		return s.Distinct(ctx, column, search)
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
