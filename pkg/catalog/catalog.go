// Package catalog records every saved pattern in a local SQLite database.
//
// Each entry holds the recipe that produced a pattern together with the paths
// of its artifacts, so a bitmap found on the DMD controller can be traced
// back to the parameters that generated it.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// FileName is the catalog database name inside an output directory.
const FileName = "catalog.db"

const schema = `
CREATE TABLE IF NOT EXISTS patterns (
  id            TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  kind          TEXT NOT NULL,
  rows          INTEGER NOT NULL,
  cols          INTEGER NOT NULL,
  flip          INTEGER NOT NULL,
  on_count      INTEGER NOT NULL,
  pattern_path  TEXT NOT NULL,
  template_path TEXT NOT NULL,
  recipe        TEXT NOT NULL,
  created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_patterns_name ON patterns (name);
CREATE INDEX IF NOT EXISTS idx_patterns_created ON patterns (created_at);
`

// Entry is one saved pattern.
type Entry struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Rows         int             `json:"rows"`
	Cols         int             `json:"cols"`
	Flip         bool            `json:"flip"`
	OnCount      int             `json:"on_count"`
	PatternPath  string          `json:"pattern_path"`
	TemplatePath string          `json:"template_path"`
	Recipe       json.RawMessage `json:"recipe"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Catalog is a handle on the pattern database.
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the catalog at path, creating its directory.
func Open(ctx context.Context, path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create catalog directory")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open catalog %s", path)
	}
	// SQLite allows one writer; serialize on a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		schema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "initialize catalog %s", path)
		}
	}
	return &Catalog{db: db, now: time.Now}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores e, assigning a fresh ID and creation time. A nil recipe is
// stored as JSON null.
func (c *Catalog) Record(ctx context.Context, e Entry) (Entry, error) {
	e.ID = uuid.New()
	e.CreatedAt = c.now().UTC()
	if len(e.Recipe) == 0 {
		e.Recipe = json.RawMessage("null")
	}

	_, err := c.db.ExecContext(ctx, `
INSERT INTO patterns (id, name, kind, rows, cols, flip, on_count, pattern_path, template_path, recipe, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Name, e.Kind, e.Rows, e.Cols, e.Flip, e.OnCount,
		e.PatternPath, e.TemplatePath, string(e.Recipe), e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "record pattern %s", e.Name)
	}
	return e, nil
}

const selectColumns = `SELECT id, name, kind, rows, cols, flip, on_count, pattern_path, template_path, recipe, created_at FROM patterns`

// ListOptions filter List.
type ListOptions struct {
	// Name restricts the listing to one pattern name.
	Name string
	// Limit caps the number of entries; zero means no limit.
	Limit int
}

// List returns entries, newest first.
func (c *Catalog) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := selectColumns
	var args []any
	if opts.Name != "" {
		query += " WHERE name = ?"
		args = append(args, opts.Name)
	}
	query += " ORDER BY created_at DESC, name"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list patterns")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list patterns")
	}
	return out, nil
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	row := c.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id.String())
	e, err := scan(row)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return Entry{}, errors.New(errors.ErrCodeNotFound, "no pattern with id %s", id)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (Entry, error) {
	var (
		e              Entry
		id, recipe, at string
	)
	err := s.Scan(&id, &e.Name, &e.Kind, &e.Rows, &e.Cols, &e.Flip, &e.OnCount,
		&e.PatternPath, &e.TemplatePath, &recipe, &at)
	if err == sql.ErrNoRows {
		return Entry{}, errors.New(errors.ErrCodeNotFound, "pattern not found")
	}
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "scan pattern")
	}
	if e.ID, err = uuid.Parse(id); err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "pattern id %q", id)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "pattern %s created_at", id)
	}
	e.Recipe = json.RawMessage(recipe)
	return e, nil
}
