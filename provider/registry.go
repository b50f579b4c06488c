package provider

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSystemName is the system used when none is selected.
const DefaultSystemName = "GPT-OSS-20B"

// Registry maps system names to providers. Lookups are case-insensitive.
type Registry struct {
	providers     map[string]Provider
	defaultSystem string
}

// NewRegistry creates an empty registry. An empty default falls back to
// DefaultSystemName.
func NewRegistry(defaultSystem string) *Registry {
	if strings.TrimSpace(defaultSystem) == "" {
		defaultSystem = DefaultSystemName
	}
	return &Registry{
		providers:     make(map[string]Provider),
		defaultSystem: normalizeName(defaultSystem),
	}
}

// NewRegistryFromConfigs builds a provider for every config and registers it.
func NewRegistryFromConfigs(defaultSystem string, configs []Config) (*Registry, error) {
	registry := NewRegistry(defaultSystem)
	for _, cfg := range configs {
		p, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("system %q: %w", cfg.Name, err)
		}
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register adds one provider under its Name. A later registration with the
// same name replaces the earlier one.
func (r *Registry) Register(p Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if p == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeName(p.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	r.providers[name] = p
	return nil
}

// Provider resolves a system by name. An empty name resolves the default.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no systems are registered")
	}

	resolved := normalizeName(name)
	if resolved == "" {
		resolved = r.defaultSystem
	}
	if p, ok := r.providers[resolved]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("system %q is not registered (available: %s)", name, strings.Join(r.Names(), ", "))
}

// DefaultSystem returns the normalized default system name.
func (r *Registry) DefaultSystem() string {
	if r == nil {
		return ""
	}
	return r.defaultSystem
}

// Names returns the registered system names as the providers report them.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	sort.Strings(names)
	return names
}

func normalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
