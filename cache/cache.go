// Package cache implements the durable key-value store behind the collector.
// Keys are content hashes of a translation request; values are opaque JSON
// documents, where the literal "null" records a request that failed.
//
// Stores never evict or expire entries. Each system gets its own namespace:
//
//	<cache_dir>/<system>/cache.db   (sqlite backend)
//	<cache_dir>/<system>/<key>.json (dir backend)
package cache

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendDir    = "dir"
	BackendMemory = "memory"
)

// DefaultDir is the cache root used when none is configured.
const DefaultDir = "cache"

// Store is a persistent map from request hash to encoded result.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) ([]byte, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Each calls fn for every entry until fn returns false. fn must not
	// call back into the store.
	Each(fn func(key string, value []byte) bool) error
	// Len returns the number of entries.
	Len() (int, error)
	// Close releases the store.
	Close() error
}

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendSQLite, BackendDir, BackendMemory}
}

// Open opens the store for system under root using backend.
func Open(backend, root, system string) (Store, error) {
	if root == "" {
		root = DefaultDir
	}
	dir := Namespace(root, system)

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(filepath.Join(dir, SQLiteFileName))
	case BackendDir:
		return NewDirStore(dir), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want one of %s)", backend, strings.Join(Backends(), ", "))
	}
}

// Namespace returns the cache directory of a system.
func Namespace(root, system string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(system))
	if name == "" || name == "." || name == ".." {
		name = "default"
	}
	return filepath.Join(root, name)
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

var nullValue = []byte("null")

// IsNull reports whether value records a failed request.
func IsNull(value []byte) bool {
	return bytes.Equal(bytes.TrimSpace(value), nullValue)
}

// Stats summarizes a store.
type Stats struct {
	Entries int
	Nulls   int
}

// Collect walks the store and counts its entries.
func Collect(s Store) (Stats, error) {
	var st Stats
	err := s.Each(func(_ string, value []byte) bool {
		st.Entries++
		if IsNull(value) {
			st.Nulls++
		}
		return true
	})
	return st, err
}

// Summary returns a human-readable summary string.
func (s Stats) Summary() string {
	if s.Entries == 0 {
		return "empty"
	}
	return fmt.Sprintf("%d entries (%d translated, %d failed)", s.Entries, s.Entries-s.Nulls, s.Nulls)
}
