package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ccollicutt/statcsv/pkg/extract"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name can be used unquoted as an SQLite table.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// SQLiteSink appends rows to a table in an SQLite database. All rows of a
// run are inserted in one transaction that is committed on Close.
// Captured values are stored as TEXT so leading zeros are kept.
type SQLiteSink struct {
	db    *sql.DB
	tx    *sql.Tx
	stmt  *sql.Stmt
	table string
}

// NewSQLiteSink opens (or creates) the database at path.
func NewSQLiteSink(path, table string) (*SQLiteSink, error) {
	if path == "" {
		return nil, errors.New("sqlite output requires a database path")
	}
	if !ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &SQLiteSink{db: db, table: table}, nil
}

// Name returns the format name.
func (s *SQLiteSink) Name() string {
	return string(FormatSQLite)
}

// WriteHeader creates the table if needed and starts the insert transaction.
func (s *SQLiteSink) WriteHeader(ctx context.Context) error {
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	line   INTEGER NOT NULL,
	time   TEXT NOT NULL,
	nodes  TEXT NOT NULL,
	edges  TEXT NOT NULL
)`, s.table)
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	s.tx = tx

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (source, line, time, nodes, edges) VALUES (?, ?, ?, ?, ?)", s.table))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	s.stmt = stmt
	return nil
}

// WriteRow inserts one record.
func (s *SQLiteSink) WriteRow(ctx context.Context, rec *extract.Record) error {
	if s.stmt == nil {
		return errors.New("sqlite sink: WriteRow called before WriteHeader")
	}
	if _, err := s.stmt.ExecContext(ctx, rec.Source, rec.LineNum, rec.Time, rec.Nodes, rec.Edges); err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}
	return nil
}

// Close commits the rows inserted so far and closes the database.
func (s *SQLiteSink) Close() error {
	var errs []error
	if s.stmt != nil {
		errs = append(errs, s.stmt.Close())
	}
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil {
			errs = append(errs, fmt.Errorf("committing rows: %w", err))
		}
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}
