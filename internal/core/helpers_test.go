package core_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/toejough/impsuite/internal/core"
	"github.com/toejough/impsuite/loader"
)

type Bacon struct {
	Mocked bool
}

type Eat func() string

type Eggs struct {
	Mocked  bool
	Cracked int
}

type Omelette struct {
	Eggs  *Eggs
	Bacon *Bacon
	Eat   Eat
	Salt  int
}

// kitchenLoader presents a *loader.Loader as a core.Loader.
type kitchenLoader struct {
	defs *loader.Loader
}

func (k kitchenLoader) NewContext(id string) core.LoaderContext {
	return k.defs.NewContext(id)
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

func (m *mockTester) Failures() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.failures...)
}

func (m *mockTester) Helper() {}

// stagedTimer fires only on the listed After calls (1-based).
type stagedTimer struct {
	mu    sync.Mutex
	calls int
	fire  map[int]bool
}

func (s *stagedTimer) After(time.Duration) <-chan time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	if !s.fire[s.calls] {
		return nil
	}

	ch := make(chan time.Time, 1)
	ch <- time.Time{}

	return ch
}

func newKitchen(t *testing.T) *loader.Loader {
	t.Helper()

	defs := loader.New()

	err := errors.Join(
		defs.Define("eggs", nil, func([]any) (any, error) { return &Eggs{}, nil }),
		defs.Define("bacon", nil, func([]any) (any, error) { return &Bacon{}, nil }),
		defs.Define("eat", nil, func([]any) (any, error) {
			return Eat(func() string { return "nom" }), nil
		}),
		defs.Define("omelette", []string{"eggs", "bacon", "eat"}, func(deps []any) (any, error) {
			return &Omelette{
				Eggs:  deps[0].(*Eggs),
				Bacon: deps[1].(*Bacon),
				Eat:   deps[2].(Eat),
			}, nil
		}),
		defs.Define("burnt", []string{"charcoal"}, func([]any) (any, error) { return nil, nil }),
	)
	if err != nil {
		t.Fatalf("failed to define kitchen: %v", err)
	}

	return defs
}

func newEngine(t *testing.T, opts ...core.Option) *core.Engine {
	t.Helper()

	return core.NewEngine(kitchenLoader{defs: newKitchen(t)}, opts...)
}

// enter declares and enters a group, returning its path.
func enter(t *testing.T, engine *core.Engine, label string, group *core.Group) core.SuitePath {
	t.Helper()

	path, err := engine.DeclareGroup(label, group)
	if err != nil {
		t.Fatalf("failed to declare %q: %v", label, err)
	}

	engine.EnterGroup(label)

	return path
}

// leave leaves the current group and fires its completion hook.
func leave(t *testing.T, engine *core.Engine) {
	t.Helper()

	path, err := engine.LeaveGroup()
	if err != nil {
		t.Fatalf("failed to leave group: %v", err)
	}

	engine.GroupFinished(path)
}
