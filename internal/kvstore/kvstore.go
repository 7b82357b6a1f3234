// Package kvstore is the persistent key-value blob store backing the search
// history. One key maps to one file; values are written wholesale.
package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrNotFound    = errors.New("key not found")
	ErrKeyRequired = errors.New("key is required")
)

// Store reads and writes opaque blobs under fixed keys.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// FileStore persists each key as a JSON file inside a storage directory.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates the storage directory if needed. Pass
// afero.NewMemMapFs() in tests and afero.NewOsFs() in production.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage directory not provided")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set overwrites the value under key atomically (tmp file + rename).
func (s *FileStore) Set(key string, value []byte) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) keyPath(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrKeyRequired
	}
	return filepath.Join(s.dir, key+".json"), nil
}
