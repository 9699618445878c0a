package core

import (
	"fmt"
	"slices"
	"sync"
)

// MockFactory produces the group-level mocks. It is invoked anew for every case.
type MockFactory func() Mocks

// SuiteConfig associates a group path with the module its cases test.
type SuiteConfig struct {
	Path   SuitePath
	Module string
	Mock   MockFactory
}

// Registry maps suite paths to configurations. At most one configuration exists
// per exact path.
type Registry struct {
	mu      sync.Mutex
	configs []SuiteConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers cfg, failing if its exact path is already configured.
func (r *Registry) Add(cfg SuiteConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.find(cfg.Path); idx >= 0 {
		return fmt.Errorf("%w: suite %q already has module %q",
			ErrDuplicateConfig, cfg.Path.String(), r.configs[idx].Module)
	}

	cfg.Path = slices.Clone(cfg.Path)
	r.configs = append(r.configs, cfg)

	return nil
}

// Len returns the number of registered configurations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.configs)
}

// Lookup returns the configuration of the closest configured ancestor of path,
// path itself included. Groups without configuration are transparent.
func (r *Registry) Lookup(path SuitePath) (SuiteConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for candidate := path; !candidate.IsRoot(); candidate = candidate.Parent() {
		if idx := r.find(candidate); idx >= 0 {
			return r.configs[idx], true
		}
	}

	return SuiteConfig{}, false
}

// Remove deletes the configuration registered for exactly path. A missing entry
// is only an error when failHard is set.
func (r *Registry) Remove(path SuitePath, failHard bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.find(path)
	if idx < 0 {
		if failHard {
			return fmt.Errorf("%w: suite %q", ErrMissingConfig, path.String())
		}

		return nil
	}

	r.configs = append(r.configs[:idx], r.configs[idx+1:]...)

	return nil
}

// find returns the index of the exact match for path, or -1.
// Must be called with r.mu held.
func (r *Registry) find(path SuitePath) int {
	for i := len(r.configs) - 1; i >= 0; i-- {
		if r.configs[i].Path.Equal(path) {
			return i
		}
	}

	return -1
}
