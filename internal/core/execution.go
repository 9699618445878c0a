package core

import (
	"fmt"
	"log/slog"
	"sync"
)

// State is a case's position in its execution lifecycle.
type State int

// Execution states. Completed, TimedOut and Failed are terminal.
const (
	StatePending State = iota
	StateLoading
	StateInvoking
	StateCompleted
	StateTimedOut
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoading:
		return "loading"
	case StateInvoking:
		return "invoking"
	case StateCompleted:
		return "completed"
	case StateTimedOut:
		return "timed out"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Completion is the long-lived signal a runner waits on (or abandons after a
// bound) to learn that a case body finished.
type Completion struct {
	once sync.Once
	done chan struct{}
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Done is closed once the case body has finished.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Signal marks the body finished. Calls after the first are no-ops.
func (c *Completion) Signal() {
	c.once.Do(func() { close(c.done) })
}

// Execution drives one case through Pending → Loading → Invoking → Completed.
type Execution struct {
	mu          sync.Mutex
	state       State
	path        SuitePath
	description string
	plan        Plan
	expect      expectation
	contexts    *ContextFactory
	log         *slog.Logger

	id         string
	ctx        LoaderContext
	loaded     bool
	module     any
	stored     View
	completion *Completion
	finished   bool
}

// Abandon records that the runner gave up waiting. A later completion signal
// no longer changes the outcome.
func (x *Execution) Abandon() {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.state == StateLoading || x.state == StateInvoking {
		x.log.Warn("case abandoned", "case", x.id, "state", x.state.String())
		x.state = StateTimedOut
	}
}

// Fail moves a loading or invoking case to Failed.
func (x *Execution) Fail(err error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.state == StateLoading || x.state == StateInvoking {
		x.log.Warn("case failed", "case", x.id, "error", err)
		x.state = StateFailed
	}
}

// Finish releases the case's loader context. An invoking case whose body has
// signalled completion becomes Completed; other states are left as they are.
func (x *Execution) Finish() {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.finished {
		return
	}

	x.finished = true

	if x.state == StateInvoking && x.completion != nil {
		select {
		case <-x.completion.Done():
			x.state = StateCompleted
		default:
		}
	}

	x.ctx = nil
	x.log.Debug("case finished", "case", x.id, "state", x.state.String())
}

// ID returns the unique id of the case's loader context, empty before Load.
func (x *Execution) ID() string {
	x.mu.Lock()
	defer x.mu.Unlock()

	return x.id
}

// Invoke calls the case body with the module, its dependencies and, for
// asynchronous bodies, a completion callback. Synchronous bodies are complete
// as soon as they return. t is the case's own reporter, exposed to the body as
// Dependencies.T.
func (x *Execution) Invoke(t TestReporter) (*Completion, error) {
	x.mu.Lock()

	if x.state != StateLoading || !x.loaded {
		state := x.state
		x.mu.Unlock()

		return nil, fmt.Errorf("%w: cannot invoke case %q while %s", ErrMisconfiguredCase, x.description, state)
	}

	x.state = StateInvoking
	x.completion = newCompletion()
	completion := x.completion
	module := x.module
	deps := newDependencies(x.plan.Mocks, x.stored, x.ctx, t)
	x.mu.Unlock()

	x.log.Debug("invoking case", "case", x.id, "async", x.expect.async())

	if !x.expect.async() {
		err := x.expect.call(module, deps, nil)
		if err != nil {
			return nil, err
		}

		completion.Signal()

		return completion, nil
	}

	err := x.expect.call(module, deps, completion.Signal)
	if err != nil {
		return nil, err
	}

	return completion, nil
}

// Load creates the case's isolated context, registers the merged mocks in it
// and requests the module plus any stored names. The returned channel yields
// exactly one value: nil, or the resolution error.
func (x *Execution) Load() <-chan error {
	result := make(chan error, 1)

	x.mu.Lock()

	if x.state != StatePending {
		state := x.state
		x.mu.Unlock()

		result <- fmt.Errorf("%w: cannot load case %q while %s", ErrMisconfiguredCase, x.description, state)

		return result
	}

	x.state = StateLoading
	x.id, x.ctx = x.contexts.Create(x.path, x.description)
	ctx := x.ctx

	for name, value := range x.plan.Mocks {
		ctx.Override(name, value)
	}

	x.mu.Unlock()

	names := x.plan.Names()

	x.log.Debug("loading case", "case", x.id, "module", x.plan.Module, "names", names)

	if len(names) == 0 {
		x.setLoaded(nil, View{})

		result <- nil

		return result
	}

	ctx.Resolve(names, func(values []any, err error) {
		if err != nil {
			result <- fmt.Errorf("%w for case %q: %w", ErrUnresolvedDependency, x.description, err)

			return
		}

		module, stored := x.split(values)
		x.setLoaded(module, stored)

		result <- nil
	})

	return result
}

// State returns the current lifecycle state.
func (x *Execution) State() State {
	x.mu.Lock()
	defer x.mu.Unlock()

	return x.state
}

func (x *Execution) setLoaded(module any, stored View) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.module = module
	x.stored = stored
	x.loaded = true
}

// split separates the module instance from the stored instances, which follow
// it in request order.
func (x *Execution) split(values []any) (any, View) {
	var module any

	if x.plan.Module != "" && len(values) > 0 {
		module, values = values[0], values[1:]
	}

	stored := make(View, len(x.plan.Store))

	for i, name := range x.plan.Store {
		if i < len(values) {
			stored[name] = values[i]
		}
	}

	return module, stored
}
