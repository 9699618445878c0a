package impsuite_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/toejough/impsuite/loader"
)

type Bacon struct {
	Mocked bool
}

type Eggs struct {
	IsEggs  bool
	Mocked  bool
	Cracked int
}

type Omelette struct {
	IsOmelette bool
	Eggs       *Eggs
	Bacon      *Bacon
}

// mockTester records Fatalf calls instead of stopping the test.
type mockTester struct {
	mu       sync.Mutex
	failures []string
}

func (m *mockTester) Fatalf(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures = append(m.failures, fmt.Sprintf(format, args...))
}

func (m *mockTester) Helper() {}

// cleanupTester is a mockTester that also collects cleanups, like *testing.T.
type cleanupTester struct {
	mockTester

	cleanups []func()
}

func (c *cleanupTester) Cleanup(f func()) {
	c.cleanups = append(c.cleanups, f)
}

func (c *cleanupTester) finish() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}

	c.cleanups = nil
}

func newKitchen(t *testing.T) *loader.Loader {
	t.Helper()

	defs := loader.New()

	err := errors.Join(
		defs.Define("eggs", nil, func([]any) (any, error) { return &Eggs{IsEggs: true}, nil }),
		defs.Define("bacon", nil, func([]any) (any, error) { return &Bacon{}, nil }),
		defs.Define("omelette", []string{"eggs", "bacon"}, func(deps []any) (any, error) {
			return &Omelette{
				IsOmelette: true,
				Eggs:       deps[0].(*Eggs),
				Bacon:      deps[1].(*Bacon),
			}, nil
		}),
	)
	if err != nil {
		t.Fatalf("failed to define kitchen: %v", err)
	}

	return defs
}
