package core

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultTimeout bounds module loading and asynchronous completion.
const DefaultTimeout = 5 * time.Second

// Group is the module association a group declares.
type Group struct {
	Module string
	Mock   MockFactory
}

// Engine ties path tracking, the configuration registry, the sweeper and the
// per-case context factory together. It expects cases to run one at a time.
type Engine struct {
	tracker  *PathTracker
	registry *Registry
	sweeper  *Sweeper
	contexts *ContextFactory
	timer    Timer
	timeout  time.Duration
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTimeout bounds loading and asynchronous completion. A duration of 0 means
// no bound (wait forever).
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithTimer replaces the real timer, for tests.
func WithTimer(timer Timer) Option {
	return func(e *Engine) {
		if timer != nil {
			e.timer = timer
		}
	}
}

// NewEngine creates an engine resolving modules through loader.
func NewEngine(loader Loader, opts ...Option) *Engine {
	engine := &Engine{
		tracker:  NewPathTracker(),
		registry: NewRegistry(),
		contexts: NewContextFactory(loader),
		timer:    realTimer{},
		timeout:  DefaultTimeout,
		log:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(engine)
	}

	engine.sweeper = NewSweeper(engine.registry, engine.log)

	return engine
}

// Begin prepares a case declared in the current group. The group configuration
// is resolved now, and its mock factory invoked fresh for this case.
func (e *Engine) Begin(description string, c Case) (*Execution, error) {
	expect, err := newExpectation(c.Expect)
	if err != nil {
		return nil, fmt.Errorf("case %q: %w", description, err)
	}

	path := e.tracker.Current()

	var group *SuiteConfig
	if cfg, ok := e.registry.Lookup(path); ok {
		group = &cfg
	}

	return &Execution{
		state:       StatePending,
		path:        path,
		description: description,
		plan:        Merge(group, c),
		expect:      expect,
		contexts:    e.contexts,
		log:         e.log,
	}, nil
}

// DeclareGroup computes the path of a new group nested in the current one and,
// if group is non-nil, associates its module with that path.
func (e *Engine) DeclareGroup(label string, group *Group) (SuitePath, error) {
	path := e.tracker.Current().Child(label)

	if group == nil {
		return path, nil
	}

	err := e.registry.Add(SuiteConfig{Path: path, Module: group.Module, Mock: group.Mock})
	if err != nil {
		return nil, err
	}

	e.log.Debug("configured suite", "path", path.String(), "module", group.Module)

	return path, nil
}

// EnterGroup records that the runner started executing the group's body.
func (e *Engine) EnterGroup(label string) SuitePath {
	return e.tracker.Enter(label)
}

// GroupFinished is the runner's group-completion hook.
func (e *Engine) GroupFinished(path SuitePath) {
	e.sweeper.GroupFinished(path)
}

// LeaveGroup records that the runner finished executing the group's body.
func (e *Engine) LeaveGroup() (SuitePath, error) {
	return e.tracker.Leave()
}

// Registry exposes the configuration registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// RunCase drives a case to completion on behalf of a runner: it waits for the
// module to load and for the body to finish, giving up after the configured
// timeout. Failures are reported through t, which the body reaches as
// Dependencies.T.
func (e *Engine) RunCase(t TestReporter, description string, c Case) State {
	t.Helper()

	exec, err := e.Begin(description, c)
	if err != nil {
		t.Fatalf("%v", err)

		return StateFailed
	}

	defer exec.Finish()

	select {
	case err := <-exec.Load():
		if err != nil {
			exec.Fail(err)
			t.Fatalf("%v", err)

			return exec.State()
		}
	case <-e.after():
		exec.Abandon()
		t.Fatalf("%v: case %q still loading after %s", ErrCaseTimeout, description, e.timeout)

		return exec.State()
	}

	completion, err := exec.Invoke(t)
	if err != nil {
		exec.Fail(err)
		t.Fatalf("%v", err)

		return exec.State()
	}

	select {
	case <-completion.Done():
	case <-e.after():
		exec.Abandon()
		t.Fatalf("%v: case %q did not call done within %s", ErrCaseTimeout, description, e.timeout)

		return exec.State()
	}

	exec.Finish()

	return exec.State()
}

func (e *Engine) after() <-chan time.Time {
	if e.timeout <= 0 {
		return nil
	}

	return e.timer.After(e.timeout)
}
