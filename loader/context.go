package loader

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Context is a private resolution namespace: modules loaded through it are
// cached in it alone, and overrides apply to it alone.
type Context struct {
	loader *Loader
	config Config

	mu        sync.Mutex
	overrides map[string]any
	instances map[string]any
}

// ID returns the context's name.
func (c *Context) ID() string {
	return c.config.Context
}

// Loaded returns the instance this context holds for name, if it was loaded.
func (c *Context) Loaded(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.instances[c.config.Canonical(name)]

	return value, ok
}

// Override makes name resolve to value in this context, for direct requests and
// for every module that depends on it.
func (c *Context) Override(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overrides[c.config.Canonical(name)] = value
}

// Require synchronously resolves names and returns their instances in order.
func (c *Context) Require(names ...string) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make([]any, 0, len(names))

	for _, name := range names {
		value, err := c.require(name, nil)
		if err != nil {
			c.loader.log.Debug("resolution failed", "context", c.ID(), "name", name, "error", err)

			return nil, err
		}

		values = append(values, value)
	}

	return values, nil
}

// Resolve resolves names on another goroutine and hands the result to onResolved.
func (c *Context) Resolve(names []string, onResolved func(values []any, err error)) {
	names = slices.Clone(names)

	go func() {
		onResolved(c.Require(names...))
	}()
}

// require resolves one name. chain holds the names being built above it.
// Must be called with c.mu held.
func (c *Context) require(name string, chain []string) (any, error) {
	name = c.config.Canonical(name)

	if value, ok := c.instances[name]; ok {
		return value, nil
	}

	if value, ok := c.overrides[name]; ok {
		c.instances[name] = value

		return value, nil
	}

	if slices.Contains(chain, name) {
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(append(chain, name), " -> "))
	}

	def, ok := c.loader.definition(name)
	if !ok {
		if len(chain) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedDependency, name)
		}

		return nil, fmt.Errorf("%w: %q (required by %s)", ErrUnresolvedDependency, name, strings.Join(chain, " -> "))
	}

	chain = append(slices.Clone(chain), name)
	deps := make([]any, 0, len(def.Deps))

	for _, dep := range def.Deps {
		value, err := c.require(dep, chain)
		if err != nil {
			return nil, err
		}

		deps = append(deps, value)
	}

	value, err := def.Factory(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build module %q: %w", name, err)
	}

	c.instances[name] = value

	return value, nil
}
