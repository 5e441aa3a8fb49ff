package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// SchemaVersion is the layout written by this package.
const SchemaVersion = "1"

const schema = `
CREATE TABLE IF NOT EXISTS scripts (
	name        TEXT PRIMARY KEY,
	content     TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	modified_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const scriptColumns = "name, content, created_at, modified_at"

// SQLite keeps scripts in a SQLite database file.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// NewSQLite opens (creating if needed) the store at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// initSchema creates the tables in one transaction and stamps or verifies
// the schema version.
func initSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	version, err := getMetadata(tx, "schema_version")
	if err != nil {
		return err
	}
	switch version {
	case "":
		if err := setMetadata(tx, "schema_version", SchemaVersion); err != nil {
			return err
		}
	case SchemaVersion:
	default:
		return fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}
	return tx.Commit()
}

// Get retrieves a script by name.
func (s *SQLite) Get(name string) (*Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+scriptColumns+" FROM scripts WHERE name = ?", name)
	sc, err := scanScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return sc, err
}

// Put stores a script by name. Overwriting keeps the creation time.
func (s *SQLite) Put(name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := formatTime(time.Now())
	_, err := s.db.Exec(`INSERT INTO scripts (`+scriptColumns+`) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, modified_at = excluded.modified_at`,
		name, content, now, now)
	return err
}

// Delete removes a script by name.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM scripts WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all scripts ordered by name.
func (s *SQLite) List() ([]Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT " + scriptColumns + " FROM scripts ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scripts []Script
	for rows.Next() {
		sc, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, *sc)
	}
	return scripts, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key, "" when unset.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getMetadata(s.db, key)
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return setMetadata(s.db, key, value)
}

func getMetadata(q execer, key string) (string, error) {
	var value string
	err := q.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func setMetadata(q execer, key, value string) error {
	_, err := q.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScript(r rowScanner) (*Script, error) {
	var sc Script
	var created, modified string
	if err := r.Scan(&sc.Name, &sc.Content, &created, &modified); err != nil {
		return nil, err
	}
	var err error
	if sc.Created, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("script %s: created_at: %w", sc.Name, err)
	}
	if sc.Modified, err = parseTime(modified); err != nil {
		return nil, fmt.Errorf("script %s: modified_at: %w", sc.Name, err)
	}
	return &sc, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
