// Package catalog provides SQLite-backed persistence for index build
// runs: one row per invocation of cmd/prepindex, recording the source
// keyword file, the resulting keyword count, and the count width each
// CSR block was serialized at. This is supplemental bookkeeping, not
// part of the searchable index itself, which stores none of it.
package catalog

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Catalog is the SQLite-backed build-run ledger.
type Catalog struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_path TEXT NOT NULL,
	output_path TEXT NOT NULL,
	keyword_count INTEGER NOT NULL,
	pair_count_width INTEGER NOT NULL,
	del_count_width INTEGER NOT NULL,
	built_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_builds_source ON builds(source_path);
`

// Open creates (or reopens) a catalog backed by the SQLite file at dsn.
// Use ":memory:" for an ephemeral catalog.
func Open(dsn string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// BuildRecord describes one prepindex invocation.
type BuildRecord struct {
	ID              int64
	SourcePath      string
	OutputPath      string
	KeywordCount    int
	PairCountWidth  int
	DelCountWidth   int
	BuiltAtUnix     int64
}

// Record inserts a BuildRecord, returning it with ID populated.
func (c *Catalog) Record(r BuildRecord) (BuildRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.Exec(`
		INSERT INTO builds (source_path, output_path, keyword_count, pair_count_width, del_count_width, built_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.SourcePath, r.OutputPath, r.KeywordCount, r.PairCountWidth, r.DelCountWidth, r.BuiltAtUnix)
	if err != nil {
		return BuildRecord{}, fmt.Errorf("catalog: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return BuildRecord{}, fmt.Errorf("catalog: last insert id: %w", err)
	}
	r.ID = id
	return r, nil
}

// Latest returns the most recent build recorded for sourcePath, or
// sql.ErrNoRows if none exists.
func (c *Catalog) Latest(sourcePath string) (BuildRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var r BuildRecord
	err := c.db.QueryRow(`
		SELECT id, source_path, output_path, keyword_count, pair_count_width, del_count_width, built_at
		FROM builds WHERE source_path = ? ORDER BY built_at DESC LIMIT 1
	`, sourcePath).Scan(&r.ID, &r.SourcePath, &r.OutputPath, &r.KeywordCount, &r.PairCountWidth, &r.DelCountWidth, &r.BuiltAtUnix)
	return r, err
}

// History returns every build recorded for sourcePath, newest first.
func (c *Catalog) History(sourcePath string) ([]BuildRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(`
		SELECT id, source_path, output_path, keyword_count, pair_count_width, del_count_width, built_at
		FROM builds WHERE source_path = ? ORDER BY built_at DESC
	`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("catalog: query history: %w", err)
	}
	defer rows.Close()

	var out []BuildRecord
	for rows.Next() {
		var r BuildRecord
		if err := rows.Scan(&r.ID, &r.SourcePath, &r.OutputPath, &r.KeywordCount, &r.PairCountWidth, &r.DelCountWidth, &r.BuiltAtUnix); err != nil {
			return nil, fmt.Errorf("catalog: scan history row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
