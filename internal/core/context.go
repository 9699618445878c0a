package core

import (
	"fmt"
	"sync/atomic"
)

// Loader creates isolated module-resolution namespaces.
type Loader interface {
	NewContext(id string) LoaderContext
}

// LoaderContext is one private namespace. Overrides registered on it are visible
// only to resolutions made through it.
type LoaderContext interface {
	// Override makes name resolve to value within this context.
	Override(name string, value any)
	// Resolve loads names asynchronously and reports the instances in order.
	Resolve(names []string, onResolved func(values []any, err error))
	// Loaded returns an instance previously loaded in this context.
	Loaded(name string) (any, bool)
}

// ContextFactory hands out one fresh loader context per case.
type ContextFactory struct {
	loader  Loader
	counter atomic.Uint64
}

// NewContextFactory creates a factory backed by loader.
func NewContextFactory(loader Loader) *ContextFactory {
	return &ContextFactory{loader: loader}
}

// Create returns a unique context id and a new context for the case described by
// description inside path. Identical descriptions in identical paths still get
// distinct contexts.
func (f *ContextFactory) Create(path SuitePath, description string) (string, LoaderContext) {
	n := f.counter.Add(1)
	id := fmt.Sprintf("%s > %s #%d", path.String(), description, n)

	return id, f.loader.NewContext(id)
}
