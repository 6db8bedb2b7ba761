// Package session persists one opaque session blob per account on disk,
// named "<account id>.session".
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tucha-cloud/tucha/internal/constants"
)

// Entry is one persisted session file.
type Entry struct {
	Name string // file name, e.g. "12345.session"
	Path string
}

// Store is a directory of session files.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// FileName returns the session file name for an account id.
func FileName(userID int64) string {
	return strconv.FormatInt(userID, 10) + constants.SessionFileExtension
}

// Path returns the session file path for an account id.
func (s *Store) Path(userID int64) string {
	return filepath.Join(s.dir, FileName(userID))
}

// List returns the session files sorted by name. A missing directory is an
// empty store.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), constants.SessionFileExtension) {
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), Path: filepath.Join(s.dir, de.Name())})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Load reads a session blob.
func (s *Store) Load(entry Entry) ([]byte, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", entry.Name, err)
	}
	return data, nil
}

// Save writes the session blob for an account, replacing any previous one.
func (s *Store) Save(userID int64, blob []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	path := s.Path(userID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, blob, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
