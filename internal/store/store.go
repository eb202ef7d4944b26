// Package store persists favorites and search history between runs.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const DefaultPath = "programState.json"

var (
	ErrPersistenceRead  = errors.New("read persisted state")
	ErrPersistenceWrite = errors.New("write persisted state")
)

type Store interface {
	Load() (favorites, history []string, err error)
	Save(favorites, history []string) error
	// LastSaved reports when state was last saved, or the zero time if never.
	LastSaved() (time.Time, error)
	Close() error
}

// Open picks a store by file extension: .db and .sqlite open a migrated
// SQLite database, anything else is a JSON file. An empty path means
// DefaultPath.
func Open(path string) (Store, error) {
	if path == "" {
		path = DefaultPath
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		return OpenSQLite(path)
	default:
		return NewFileStore(path), nil
	}
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA busy_timeout=5000")

	s := NewSQLite(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if version, err := s.MigrationVersion(); err == nil {
		log.Printf("store: %s at schema version %d", path, version)
	}
	return s, nil
}
