package main

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,  -- hashed instead of raw IP
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors(timestamp);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	read INTEGER NOT NULL DEFAULT 0
);
`

// openStore opens the SQLite database at path and creates the tables
func openStore(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		// store times in a format SQLite's date functions understand
		dsn += "?_time_format=sqlite"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite serialises writers; one connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}
