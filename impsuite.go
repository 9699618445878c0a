// Package impsuite lets a group of Go subtests declare the module it tests.
// Every case in the group, and in its nested groups, gets a freshly loaded
// instance of that module from its own isolated loader context, with chosen
// dependencies replaced by mocks and others exposed for inspection.
//
// This is the public API entry point. Implementation lives in internal/core.
package impsuite

import (
	"log/slog"
	"testing"
	"time"

	"github.com/toejough/impsuite/internal/core"
	"github.com/toejough/impsuite/loader"
)

// Types re-exported from internal/core.

// Case is one case declaration: mocks, stored names and the body.
type Case = core.Case

// Dependencies is the resolved dependency set handed to a case body.
type Dependencies = core.Dependencies

// Done signals that an asynchronous case body has finished.
type Done = core.Done

// Group is the module association (and group-level mocks) a group declares.
type Group = core.Group

// MockFactory produces group-level mocks, once per case.
type MockFactory = core.MockFactory

// MockFunc produces a fresh mock for each case.
type MockFunc = core.MockFunc

// Mocks maps dependency names to substitutes or substitute factories.
type Mocks = core.Mocks

// Option configures a Suite.
type Option = core.Option

// State is a case's position in its execution lifecycle.
type State = core.State

// SuitePath is the root-first sequence of group labels.
type SuitePath = core.SuitePath

// TestReporter is the minimal interface impsuite needs from test frameworks.
type TestReporter = core.TestReporter

// Timer abstracts time-based operations for testability.
type Timer = core.Timer

// View is a read-only name → instance map.
type View = core.View

// Errors re-exported from internal/core.
var (
	ErrCaseTimeout          = core.ErrCaseTimeout
	ErrDuplicateConfig      = core.ErrDuplicateConfig
	ErrMisconfiguredCase    = core.ErrMisconfiguredCase
	ErrMissingConfig        = core.ErrMissingConfig
	ErrUnresolvedDependency = core.ErrUnresolvedDependency
)

// DefaultTimeout bounds module loading and asynchronous completion.
const DefaultTimeout = core.DefaultTimeout

// Suite runs groups and cases against modules defined in a loader.
// Cases must not call t.Parallel: one case runs at a time.
type Suite struct {
	engine *core.Engine
}

// New creates a Suite resolving modules through defs.
func New(defs *loader.Loader, opts ...Option) *Suite {
	return &Suite{engine: core.NewEngine(loaderAdapter{defs: defs}, opts...)}
}

// Expect builds a Case with only a body.
func Expect(body any) Case {
	return Case{Expect: body}
}

// Literal wraps a mock value that must be used as-is even if it is a factory.
func Literal(value any) any {
	return core.Literal(value)
}

// WithLogger sets the logger for registry and case lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return core.WithLogger(log)
}

// WithTimeout bounds loading and asynchronous completion; 0 waits forever.
func WithTimeout(d time.Duration) Option {
	return core.WithTimeout(d)
}

// WithTimer replaces the real timer, for tests.
func WithTimer(timer Timer) Option {
	return core.WithTimer(timer)
}

// Describe runs body as a group whose cases test module.
func (s *Suite) Describe(t *testing.T, label, module string, body func(t *testing.T)) bool {
	t.Helper()

	return s.DescribeGroup(t, label, Group{Module: module}, body)
}

// DescribeGroup runs body as a group with the given module association.
func (s *Suite) DescribeGroup(t *testing.T, label string, group Group, body func(t *testing.T)) bool {
	t.Helper()

	return s.runGroup(t, label, &group, body)
}

// Group runs body as a plain group. It declares no module, so its cases see
// the closest enclosing group's module.
func (s *Suite) Group(t *testing.T, label string, body func(t *testing.T)) bool {
	t.Helper()

	return s.runGroup(t, label, nil, body)
}

// It runs c as a case of the current group, in its own subtest. The body
// reaches that subtest through Dependencies.T; failures reported there fail
// this case only.
func (s *Suite) It(t *testing.T, description string, c Case) bool {
	t.Helper()

	return t.Run(description, func(t *testing.T) {
		t.Helper()
		s.engine.RunCase(t, description, c)
	})
}

// Configured returns the number of live group configurations.
func (s *Suite) Configured() int {
	return s.engine.Registry().Len()
}

// XDescribe declares a disabled group. Its body never runs and it declares nothing.
func (s *Suite) XDescribe(t *testing.T, label, _ string, _ func(t *testing.T)) bool {
	t.Helper()

	return t.Run(label, func(t *testing.T) {
		t.Skip("disabled group")
	})
}

// XIt declares a disabled case. Its module is never loaded.
func (s *Suite) XIt(t *testing.T, description string, _ Case) bool {
	t.Helper()

	return t.Run(description, func(t *testing.T) {
		t.Skip("disabled case")
	})
}

// runGroup declares the group from inside its own subtest, so a subtest the
// runner filters out never leaves a configuration behind.
func (s *Suite) runGroup(t *testing.T, label string, group *Group, body func(t *testing.T)) bool {
	t.Helper()

	return t.Run(label, func(t *testing.T) {
		t.Helper()

		path, err := s.engine.DeclareGroup(label, group)
		if err != nil {
			t.Fatalf("%v", err)
		}

		t.Cleanup(func() { s.engine.GroupFinished(path) })

		s.engine.EnterGroup(label)

		defer func() {
			if _, err := s.engine.LeaveGroup(); err != nil {
				t.Errorf("%v", err)
			}
		}()

		body(t)
	})
}

// loaderAdapter presents a *loader.Loader as the engine's Loader.
type loaderAdapter struct {
	defs *loader.Loader
}

func (a loaderAdapter) NewContext(id string) core.LoaderContext {
	return a.defs.NewContext(id)
}
