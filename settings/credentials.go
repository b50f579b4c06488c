// Package settings provides storage for mtcollect user settings, currently
// the API keys of translation systems.
//
// All settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/mtcollect/  (default: ~/.local/share/mtcollect/)
//
// auth.json is a JSON object keyed by lower-cased system name:
//
//	{"gpt-oss-20b": {"type": "api", "key": "...", "baseUrl": "..."}}
//
// File permissions are 0600 (owner read/write only).
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. MTCOLLECT_API_KEY environment variable
//  3. This credential store
//  4. api_key / api_key_env of the system in .mtcollect.yaml
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	dataDirName = "mtcollect"
	fileName    = "auth.json"

	typeAPI = "api"
)

// Info is the credential entry stored per system.
type Info struct {
	// Type is always "api".
	Type string `json:"type"`
	// Key is the API key.
	Key string `json:"key,omitempty"`
	// BaseURL optionally overrides the endpoint of the system.
	BaseURL string `json:"baseUrl,omitempty"`
}

// IsAPI returns true if this is an API key entry.
func (i *Info) IsAPI() bool {
	return i.Type == typeAPI
}

// Store holds all credentials, keyed by system ID.
type Store map[string]*Info

// SystemID is the store key of a system name.
func SystemID(system string) string {
	return strings.ToLower(strings.TrimSpace(system))
}

// IDs returns the stored system IDs in sorted order.
func (s Store) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir respects $XDG_DATA_HOME and falls back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the mtcollect data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Get / Set / Remove
// ---------------------------------------------------------------------------

// Get returns the entry of a system, or nil if not found.
func Get(system string) *Info {
	return Load()[SystemID(system)]
}

// SetAPIKey stores an API key and optional endpoint for a system.
func SetAPIKey(system, key, baseURL string) error {
	id := SystemID(system)
	if id == "" {
		return fmt.Errorf("system name is required")
	}
	store := Load()
	store[id] = &Info{Type: typeAPI, Key: key, BaseURL: baseURL}
	return Save(store)
}

// GetAPIKey retrieves the stored API key of a system, or "".
func GetAPIKey(system string) string {
	info := Get(system)
	if info == nil || !info.IsAPI() {
		return ""
	}
	return info.Key
}

// GetBaseURL retrieves the stored endpoint of a system, or "".
func GetBaseURL(system string) string {
	info := Get(system)
	if info == nil {
		return ""
	}
	return info.BaseURL
}

// Remove deletes the credentials of a system.
func Remove(system string) error {
	store := Load()
	id := SystemID(system)
	if _, ok := store[id]; !ok {
		return nil
	}
	delete(store, id)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
