package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

type fileState struct {
	Favorites *[]string `json:"favorites"`
	History   *[]string `json:"history"`
}

// FileStore keeps state in a single JSON document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

// Load reads the document. Both keys must be present and non-null.
func (f *FileStore) Load() ([]string, []string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistenceRead, err)
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, nil, fmt.Errorf("%w: decode %s: %w", ErrPersistenceRead, f.path, err)
	}
	if st.Favorites == nil {
		return nil, nil, fmt.Errorf("%w: %s: missing favorites", ErrPersistenceRead, f.path)
	}
	if st.History == nil {
		return nil, nil, fmt.Errorf("%w: %s: missing history", ErrPersistenceRead, f.path)
	}
	return *st.Favorites, *st.History, nil
}

// Save writes the document to a temporary file next to the target and renames
// it into place.
func (f *FileStore) Save(favorites, history []string) error {
	if favorites == nil {
		favorites = []string{}
	}
	if history == nil {
		history = []string{}
	}
	data, err := json.MarshalIndent(fileState{Favorites: &favorites, History: &history}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistenceWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceWrite, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrPersistenceWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceWrite, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceWrite, err)
	}
	return nil
}

// LastSaved returns the document's modification time, or the zero time if it
// does not exist.
func (f *FileStore) LastSaved() (time.Time, error) {
	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrPersistenceRead, err)
	}
	return info.ModTime(), nil
}

func (f *FileStore) Close() error {
	return nil
}
