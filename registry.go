package impsuite

import (
	"sync"

	"github.com/toejough/impsuite/loader"
)

// For returns the Suite for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Suite, so helpers
// called from one top-level test share its group configurations.
//
// If the TestReporter supports Cleanup (like *testing.T), the Suite is
// automatically removed from the registry when the test completes.
func For(t TestReporter, defs *loader.Loader, opts ...Option) *Suite {
	registryMu.Lock()
	defer registryMu.Unlock()

	if suite, ok := registry[t]; ok {
		return suite
	}

	suite := New(defs, opts...)
	registry[t] = suite

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return suite
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Suite)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
