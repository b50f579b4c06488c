// Package config loads the .mtcollect.yaml project file and environment settings.
//
// The project file declares the translation systems and the defaults of the
// collect run. Without a file the built-in GPT-OSS-20B system is used.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/mtcollect/cache"
	"github.com/minios-linux/mtcollect/collect"
	"github.com/minios-linux/mtcollect/dataset"
	"github.com/minios-linux/mtcollect/provider"
	"github.com/minios-linux/mtcollect/report"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .mtcollect.yaml structure.
type File struct {
	// Dataset is the blindset path (default "wmt25-genmt.jsonl").
	Dataset string `yaml:"dataset,omitempty"`
	// DatasetID is written into every answer (default "wmttest2025").
	DatasetID string `yaml:"dataset_id,omitempty"`
	// OutputDir receives <system>.jsonl (default "wmt_translations").
	OutputDir string `yaml:"output_dir,omitempty"`
	// SplitDir receives the per-pair split files (default "pair_splits").
	SplitDir string `yaml:"split_dir,omitempty"`
	// CacheDir holds one cache per system (default "cache").
	CacheDir string `yaml:"cache_dir,omitempty"`
	// CacheBackend is "sqlite", "dir" or "memory" (default "sqlite").
	CacheBackend string `yaml:"cache_backend,omitempty"`
	// FailureThreshold is the failed share above which a target language is
	// dropped from the output (default 0.25).
	FailureThreshold *float64 `yaml:"failure_threshold,omitempty"`
	// DefaultSystem is used when --system is not given.
	DefaultSystem string `yaml:"default_system,omitempty"`
	// Systems are the translation systems that can be selected.
	Systems []System `yaml:"systems,omitempty"`
}

// System describes one translation system.
type System struct {
	// Name is the system name, also the output and cache file name.
	Name string `yaml:"name"`
	// Provider is "openai" (default) or "gemini".
	Provider string `yaml:"provider,omitempty"`
	// BaseURL is the API endpoint.
	BaseURL string `yaml:"base_url,omitempty"`
	// Model is the model identifier.
	Model string `yaml:"model,omitempty"`
	// APIKey is a literal key. Prefer APIKeyEnv or the credential store.
	APIKey string `yaml:"api_key,omitempty"`
	// APIKeyEnv names an environment variable holding the key.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	// MaxTokens caps each answer.
	MaxTokens int `yaml:"max_tokens,omitempty"`
	// Timeout bounds a single call, e.g. "10m".
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// MaxRetries is how often rate-limited calls are retried.
	MaxRetries int `yaml:"max_retries,omitempty"`
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty"`
	// Languages, when set, is the allowlist of target languages.
	Languages []string `yaml:"languages,omitempty"`
	// Breaker configures the circuit breaker around the system.
	Breaker Breaker `yaml:"breaker,omitempty"`
}

// Breaker is the circuit breaker section of a system.
type Breaker struct {
	ConsecutiveFailures uint32        `yaml:"consecutive_failures,omitempty"`
	OpenTimeout         time.Duration `yaml:"open_timeout,omitempty"`
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

// FileName is the default config file name.
const FileName = ".mtcollect.yaml"

// DefaultOutputDir is where submission files are written.
const DefaultOutputDir = "wmt_translations"

// BuiltinSystem is the system available without any config file: a local
// OpenAI-compatible server hosting gpt-oss-20b.
func BuiltinSystem() System {
	return System{
		Name:      provider.DefaultSystemName,
		Provider:  provider.KindOpenAI,
		BaseURL:   provider.DefaultOpenAIBaseURL,
		Model:     provider.DefaultOpenAIModel,
		APIKey:    provider.DefaultOpenAIAPIKey,
		MaxTokens: provider.DefaultOpenAIMaxTokens,
	}
}

// Default returns the configuration used when no file exists.
func Default() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

func (f *File) applyDefaults() {
	if f.Dataset == "" {
		f.Dataset = dataset.DefaultInput
	}
	if f.DatasetID == "" {
		f.DatasetID = collect.DefaultDatasetID
	}
	if f.OutputDir == "" {
		f.OutputDir = DefaultOutputDir
	}
	if f.SplitDir == "" {
		f.SplitDir = dataset.DefaultSplitDir
	}
	if f.CacheDir == "" {
		f.CacheDir = cache.DefaultDir
	}
	if f.CacheBackend == "" {
		f.CacheBackend = cache.BackendSQLite
	}
	if f.FailureThreshold == nil {
		threshold := report.DefaultThreshold
		f.FailureThreshold = &threshold
	}
	if len(f.Systems) == 0 {
		f.Systems = []System{BuiltinSystem()}
	}
	if f.DefaultSystem == "" {
		f.DefaultSystem = f.Systems[0].Name
	}
	for i := range f.Systems {
		if f.Systems[i].Provider == "" {
			f.Systems[i].Provider = provider.KindOpenAI
		}
	}
}

// Threshold returns the failure threshold.
func (f *File) Threshold() float64 {
	if f.FailureThreshold == nil {
		return report.DefaultThreshold
	}
	return *f.FailureThreshold
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load loads .mtcollect.yaml from dir. A missing file yields Default().
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	f, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return f, err
}

// LoadFile loads and validates a config file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// Validate checks the systems and run defaults.
func (f *File) Validate() error {
	seen := make(map[string]bool)
	for i, s := range f.Systems {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("system #%d has no name", i+1)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("system %q: name must not contain path separators", name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("system %q is declared twice", name)
		}
		seen[key] = true

		switch strings.ToLower(s.Provider) {
		case provider.KindOpenAI, provider.KindGemini:
		default:
			return fmt.Errorf("system %q has unknown provider %q (valid: %s, %s)",
				name, s.Provider, provider.KindOpenAI, provider.KindGemini)
		}
		if s.MaxTokens < 0 || s.MaxRetries < 0 || s.Timeout < 0 {
			return fmt.Errorf("system %q: max_tokens, max_retries and timeout must not be negative", name)
		}
	}

	if _, err := f.System(f.DefaultSystem); err != nil {
		return fmt.Errorf("default_system: %w", err)
	}

	validBackend := false
	for _, b := range cache.Backends() {
		if f.CacheBackend == b {
			validBackend = true
		}
	}
	if !validBackend {
		return fmt.Errorf("unknown cache_backend %q (valid: %s)", f.CacheBackend, strings.Join(cache.Backends(), ", "))
	}

	if t := f.Threshold(); t < 0 || t > 1 {
		return fmt.Errorf("failure_threshold must be between 0 and 1, got %g", t)
	}
	return nil
}

// System returns the system with the given name, case-insensitively. An
// empty name selects DefaultSystem.
func (f *File) System(name string) (System, error) {
	if strings.TrimSpace(name) == "" {
		name = f.DefaultSystem
	}
	for _, s := range f.Systems {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	names := make([]string, len(f.Systems))
	for i, s := range f.Systems {
		names[i] = s.Name
	}
	return System{}, fmt.Errorf("unknown system %q (available: %s)", name, strings.Join(names, ", "))
}

// ---------------------------------------------------------------------------
// Provider mapping
// ---------------------------------------------------------------------------

// ProviderConfig converts the system into a provider configuration using
// apiKey when it is non-empty, otherwise the key configured for the system.
func (s System) ProviderConfig(apiKey string) provider.Config {
	if apiKey == "" {
		apiKey = s.ConfiguredAPIKey()
	}
	return provider.Config{
		Name:       s.Name,
		Kind:       strings.ToLower(s.Provider),
		BaseURL:    s.BaseURL,
		APIKey:     apiKey,
		Model:      s.Model,
		MaxTokens:  s.MaxTokens,
		Timeout:    s.Timeout,
		MaxRetries: s.MaxRetries,
		Proxy:      s.Proxy,
		Languages:  s.Languages,
		Breaker: provider.BreakerConfig{
			ConsecutiveFailures: s.Breaker.ConsecutiveFailures,
			OpenTimeout:         s.Breaker.OpenTimeout,
		},
	}
}

// ConfiguredAPIKey returns the key named by api_key_env, else api_key.
func (s System) ConfiguredAPIKey() string {
	if s.APIKeyEnv != "" {
		if v := os.Getenv(s.APIKeyEnv); v != "" {
			return v
		}
	}
	return s.APIKey
}
