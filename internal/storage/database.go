package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS is how long a connection waits on a locked database.
const busyTimeoutMS = 5000

var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// dsn builds the SQLite URI for path. Characters that delimit the query or
// fragment of a URI are percent-encoded so they stay part of the file name.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", uriPathEscaper.Replace(path), busyTimeoutMS)
}

// New opens a SQLite database connection at the given path.
// Foreign keys and the busy timeout apply to every pooled connection.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS voices (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			content TEXT,
			note TEXT,
			emotion INTEGER NOT NULL DEFAULT 0,
			voice_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (voice_id) REFERENCES voices(id) ON DELETE SET NULL
		);`,
		`CREATE TABLE IF NOT EXISTS record_genres (
			record_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			code INTEGER NOT NULL,
			PRIMARY KEY (record_id, position),
			FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
