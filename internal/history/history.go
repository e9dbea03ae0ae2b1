// Package history implements the supplemented analysis-history feature: a
// small best-effort log of completed analyze.project runs, backed by
// modernc.org/sqlite. Errors here are never propagated to the core
// pipeline — a history write failure is logged and dropped.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded analysis.
type Run struct {
	Timestamp   time.Time `json:"timestamp"`
	Fingerprint string    `json:"fingerprint"`
	Components  int       `json:"components"`
	Relations   int       `json:"relations"`
	CacheHit    bool      `json:"cache_hit"`
}

// Store persists Run rows to a sqlite database file.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp   TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	components  INTEGER NOT NULL,
	relations   INTEGER NOT NULL,
	cache_hit   INTEGER NOT NULL
);
`

// Open opens (or creates) a history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a completed run. Callers that want best-effort semantics
// should log the returned error rather than fail their request on it.
func (s *Store) Record(r Run) error {
	cacheHit := 0
	if r.CacheHit {
		cacheHit = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (timestamp, fingerprint, components, relations, cache_hit) VALUES (?, ?, ?, ?, ?)`,
		r.Timestamp.UTC().Format(time.RFC3339Nano), r.Fingerprint, r.Components, r.Relations, cacheHit,
	)
	return err
}

// Recent returns the most recent n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.Query(
		`SELECT timestamp, fingerprint, components, relations, cache_hit FROM runs ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var ts string
		var r Run
		var cacheHit int
		if err := rows.Scan(&ts, &r.Fingerprint, &r.Components, &r.Relations, &cacheHit); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		r.CacheHit = cacheHit != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
