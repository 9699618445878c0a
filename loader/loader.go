// Package loader resolves named modules from their dependencies, with one
// private instance cache and override table per context.
package loader

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Factory builds a module from its resolved dependencies, in declaration order.
type Factory func(deps []any) (any, error)

// Definition describes how to build one module.
type Definition struct {
	Name    string
	Deps    []string
	Factory Factory
}

// Loader holds module definitions and creates isolated contexts over them.
type Loader struct {
	mu     sync.RWMutex
	defs   map[string]Definition
	config Config
	log    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfig sets the loading environment inherited by every context.
func WithConfig(cfg Config) Option {
	return func(l *Loader) {
		l.config = cfg
	}
}

// WithLogger sets the loader's logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates a Loader without definitions.
func New(opts ...Option) *Loader {
	l := &Loader{
		defs: make(map[string]Definition),
		log:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Config returns the loader's shared configuration.
func (l *Loader) Config() Config {
	return l.config.forContext(l.config.Context)
}

// Define registers a module. Each context that needs it calls factory once.
func (l *Loader) Define(name string, deps []string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("%w: empty module name", ErrInvalidDefinition)
	}

	if factory == nil {
		return fmt.Errorf("%w: module %q has no factory", ErrInvalidDefinition, name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.defs[name]; ok {
		return fmt.Errorf("%w: module %q", ErrDuplicateDefinition, name)
	}

	l.defs[name] = Definition{Name: name, Deps: slices.Clone(deps), Factory: factory}
	l.log.Debug("defined module", "module", name, "deps", deps)

	return nil
}

// DefineValue registers a module whose instance is value. The same value is
// shared by every context; use Define for per-context instances.
func (l *Loader) DefineValue(name string, value any) error {
	return l.Define(name, nil, func([]any) (any, error) { return value, nil })
}

// Defined reports whether name (after aliasing) has a definition.
func (l *Loader) Defined(name string) bool {
	_, ok := l.definition(l.config.Canonical(name))

	return ok
}

// NewContext creates an isolated context named id.
func (l *Loader) NewContext(id string) *Context {
	l.log.Debug("created context", "context", id)

	return &Context{
		loader:    l,
		config:    l.config.forContext(id),
		overrides: make(map[string]any),
		instances: make(map[string]any),
	}
}

func (l *Loader) definition(name string) (Definition, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	def, ok := l.defs[name]

	return def, ok
}
