package store

import (
	"database/sql"
	"fmt"
	"time"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns the collections written by the last Save. A database that has
// never been saved to is treated as unreadable.
func (s *SQLiteStore) Load() ([]string, []string, error) {
	var saves int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM saves`).Scan(&saves); err != nil {
		return nil, nil, fmt.Errorf("%w: count saves: %w", ErrPersistenceRead, err)
	}
	if saves == 0 {
		return nil, nil, fmt.Errorf("%w: no saved state", ErrPersistenceRead)
	}

	favorites, err := s.names(`SELECT name FROM favorites ORDER BY name`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: favorites: %w", ErrPersistenceRead, err)
	}
	history, err := s.names(`SELECT name FROM history ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: history: %w", ErrPersistenceRead, err)
	}
	return favorites, history, nil
}

func (s *SQLiteStore) names(query string) ([]string, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Save replaces both collections and records the save in one transaction.
func (s *SQLiteStore) Save(favorites, history []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersistenceWrite, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM favorites`); err != nil {
		return fmt.Errorf("%w: clear favorites: %w", ErrPersistenceWrite, err)
	}
	if _, err := tx.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("%w: clear history: %w", ErrPersistenceWrite, err)
	}

	for _, name := range favorites {
		if _, err := tx.Exec(`INSERT INTO favorites (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("%w: insert favorite %q: %w", ErrPersistenceWrite, name, err)
		}
	}
	for i, name := range history {
		if _, err := tx.Exec(`INSERT INTO history (position, name) VALUES (?, ?)`, i, name); err != nil {
			return fmt.Errorf("%w: insert history %q: %w", ErrPersistenceWrite, name, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO saves (saved_at, favorites, history) VALUES (?, ?, ?)
	`, time.Now().Unix(), len(favorites), len(history)); err != nil {
		return fmt.Errorf("%w: record save: %w", ErrPersistenceWrite, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersistenceWrite, err)
	}
	return nil
}

// LastSaved reports when state was last saved, or the zero time if never.
func (s *SQLiteStore) LastSaved() (time.Time, error) {
	var savedAt int64
	err := s.db.QueryRow(`SELECT saved_at FROM saves ORDER BY id DESC LIMIT 1`).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: last save: %w", ErrPersistenceRead, err)
	}
	return time.Unix(savedAt, 0).UTC(), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
