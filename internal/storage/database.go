package storage

import (
	"database/sql"
	"net/url"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// A snapshot is written and read by a single caller, so one connection is enough.
func New(path string) (*sql.DB, error) {
	return open(fileURI(path, nil))
}

// OpenReadOnly opens an existing SQLite file without creating it.
func OpenReadOnly(path string) (*sql.DB, error) {
	return open(fileURI(path, url.Values{"mode": {"ro"}}))
}

// fileURI turns path into a SQLite URI filename. Characters such as '?',
// '#' and '%' in path are percent-encoded so they stay part of the name.
func fileURI(path string, query url.Values) string {
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		OmitHost: true,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the records table.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS records (
			idx INTEGER PRIMARY KEY,
			context TEXT NOT NULL,
			response TEXT NOT NULL,
			document TEXT NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
