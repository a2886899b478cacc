// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps an optional SQLite history of conversions so a user
// can see what was converted, when, and from which notebook contents.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nbrst/pkg/types"
)

const (
	dbFile     = "nbrst.db"
	defaultDir = ".nbrst"

	// DefaultLimit bounds List when the caller passes a non-positive limit.
	DefaultLimit = 20
)

// Ledger manages the conversion history database.
type Ledger struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the history database at cfg.Dir/nbrst.db and
// creates the schema if it does not exist.
func Open(cfg types.LedgerConfig) (*Ledger, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	l := &Ledger{db: db, dir: dir}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return filepath.Join(l.dir, dbFile)
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			checksum TEXT,
			status TEXT NOT NULL,
			lines INTEGER,
			code_cells INTEGER,
			markdown_cells INTEGER,
			error TEXT,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_input ON conversions(input)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends rec to the history and returns its assigned ID.
func (l *Ledger) Record(ctx context.Context, rec types.ConversionRecord) (int64, error) {
	ts := rec.ConvertedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO conversions (input, output, checksum, status, lines, code_cells, markdown_cells, error, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Input, rec.Output, rec.Checksum, string(rec.Status),
		rec.Lines, rec.CodeCells, rec.MarkdownCells, rec.Error,
		ts.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("recording conversion of %s: %w", rec.Input, err)
	}
	return res.LastInsertId()
}

// QueryOptions filters List results.
type QueryOptions struct {
	// Input restricts results to one notebook path.
	Input string

	// Status restricts results to one outcome.
	Status types.ConversionStatus

	Limit int
}

// List returns history entries, newest first.
func (l *Ledger) List(ctx context.Context, opts QueryOptions) ([]types.ConversionRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, input, output, checksum, status, lines, code_cells, markdown_cells, error, converted_at
		FROM conversions WHERE 1=1`
	var args []any
	if opts.Input != "" {
		query += ` AND input = ?`
		args = append(args, opts.Input)
	}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var records []types.ConversionRecord
	for rows.Next() {
		var (
			rec      types.ConversionRecord
			checksum sql.NullString
			errMsg   sql.NullString
			status   string
			ts       string
		)
		if err := rows.Scan(&rec.ID, &rec.Input, &rec.Output, &checksum, &status,
			&rec.Lines, &rec.CodeCells, &rec.MarkdownCells, &errMsg, &ts); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		rec.Checksum = checksum.String
		rec.Error = errMsg.String
		rec.Status = types.ConversionStatus(status)
		rec.ConvertedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", ts, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
