// Package sqlite backs the accident and history repositories with an embedded
// sqlite database, so reports and searches survive restarts.
package sqlite

import (
	"database/sql"

	"github.com/lintang-b-s/saferoutes/pkg/util"
	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "sqlite: open %s", path)
	}
	if err := db.Ping(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "sqlite: ping")
	}

	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "sqlite: migrate")
	}
	return s, nil
}

func (s *DB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accident_reports (
			id TEXT PRIMARY KEY,
			seq INTEGER,
			timestamp DATETIME NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			severity TEXT NOT NULL,
			description TEXT,
			reporter_id TEXT,
			upvotes INTEGER NOT NULL DEFAULT 0,
			downvotes INTEGER NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			expires_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS route_history (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			start_name TEXT NOT NULL,
			end_name TEXT NOT NULL,
			route_name TEXT,
			risk_score REAL,
			risk_level TEXT,
			distance_km REAL,
			time_minutes INTEGER,
			routes_count INTEGER,
			weather TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_reports_expires_at ON accident_reports(expires_at);
		CREATE INDEX IF NOT EXISTS idx_history_timestamp ON route_history(timestamp);
		CREATE INDEX IF NOT EXISTS idx_history_pair ON route_history(start_name, end_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *DB) Close() error {
	return s.db.Close()
}
