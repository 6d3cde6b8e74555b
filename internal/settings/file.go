package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

type fileDocument struct {
	Values map[string]string `toml:"values"`
}

// FileStore persists values as a flat TOML table. Writes are buffered in
// memory until Sync, which replaces the file atomically.
type FileStore struct {
	mu    sync.Mutex
	path  string
	mem   *MemoryStore
	dirty bool
}

// OpenFileStore loads path if it exists.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, mem: NewMemoryStore()}
	var doc fileDocument
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("settings: load %s: %w", path, err)
		}
	}
	for k, v := range doc.Values {
		if err := s.mem.SetValue(k, v); err != nil {
			return nil, fmt.Errorf("settings: load %s: key %q: %w", path, k, err)
		}
	}
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) SetValue(path, value string) error {
	if err := s.mem.SetValue(path, value); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

func (s *FileStore) Remove(path string) error {
	if err := s.mem.Remove(path); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

func (s *FileStore) Value(path string) (string, bool, error) {
	return s.mem.Value(path)
}

func (s *FileStore) Keys() ([]string, error) {
	return s.mem.Keys()
}

func (s *FileStore) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings: sync %s: %w", s.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("settings: sync %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	doc := fileDocument{Values: s.mem.Snapshot()}
	if err := toml.NewEncoder(tmp).Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("settings: encode %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("settings: sync %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("settings: sync %s: %w", s.path, err)
	}
	s.dirty = false
	return nil
}

func (s *FileStore) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}
