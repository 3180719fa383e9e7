package docurl

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

// Schema creates the table read by SQLite. A crawler fills it with one row
// per component.
const Schema = `CREATE TABLE IF NOT EXISTS doc_urls (
	component TEXT PRIMARY KEY,
	url TEXT NOT NULL
);`

// SQLite looks URLs up in a doc_urls table.
type SQLite struct {
	db     *sql.DB
	lookup *sql.Stmt
}

// OpenSQLite opens the database at dsn, creating the table if needed.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "docs", Value: dsn, Message: "cannot open doc url database", Cause: err}
	}
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, &oaserrors.ConfigError{Option: "docs", Value: dsn, Message: "cannot prepare doc url table", Cause: err}
	}
	stmt, err := db.Prepare(`SELECT url FROM doc_urls WHERE component = ?`)
	if err != nil {
		_ = db.Close()
		return nil, &oaserrors.ConfigError{Option: "docs", Value: dsn, Message: "cannot prepare doc url query", Cause: err}
	}
	return &SQLite{db: db, lookup: stmt}, nil
}

// Lookup implements Lookup. Query failures count as misses.
func (s *SQLite) Lookup(path ir.ComponentPath) (string, bool) {
	var url string
	err := s.lookup.QueryRow(string(path)).Scan(&url)
	if err != nil || url == "" {
		return "", false
	}
	return url, true
}

// Put records the URL of a component, replacing any previous one.
func (s *SQLite) Put(path ir.ComponentPath, url string) error {
	_, err := s.db.Exec(`INSERT INTO doc_urls(component, url) VALUES(?, ?)
		ON CONFLICT(component) DO UPDATE SET url = excluded.url`, string(path), url)
	return err
}

// Close releases the database.
func (s *SQLite) Close() error {
	return errors.Join(s.lookup.Close(), s.db.Close())
}
