package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DirStore keeps one JSON file per entry in a directory.
type DirStore struct {
	dir string
	mu  sync.Mutex
}

// NewDirStore creates a store rooted at dir. The directory is created on the
// first write.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Dir returns the store directory.
func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements Store.
func (s *DirStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements Store. The value goes to a temporary file that is renamed
// over the entry.
func (s *DirStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// keys returns the sorted entry keys. Callers hold mu.
func (s *DirStore) keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

// Each implements Store.
func (s *DirStore) Each(fn func(key string, value []byte) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		data, err := os.ReadFile(s.path(key))
		if err != nil {
			return fmt.Errorf("reading cache entry %s: %w", key, err)
		}
		if !fn(key, data) {
			break
		}
	}
	return nil
}

// Len implements Store.
func (s *DirStore) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.keys()
	return len(keys), err
}

// Close implements Store.
func (s *DirStore) Close() error {
	return nil
}
