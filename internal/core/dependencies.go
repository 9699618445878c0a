package core

import "maps"

// View is a read-only name → instance map. Missing names read as nil.
type View map[string]any

// Dependencies is the resolved dependency set handed to one case body.
type Dependencies struct {
	mocks    View
	stored   View
	ctx      LoaderContext
	reporter TestReporter
}

func newDependencies(mocks Mocks, stored View, ctx LoaderContext, reporter TestReporter) *Dependencies {
	return &Dependencies{
		mocks:    View(maps.Clone(mocks)),
		stored:   stored,
		ctx:      ctx,
		reporter: reporter,
	}
}

// Get returns the instance for name, or nil.
func (d *Dependencies) Get(name string) any {
	value, _ := d.Lookup(name)

	return value
}

// Lookup returns the instance the case's context holds for name: a mock, a
// stored dependency, or anything the module under test loaded.
func (d *Dependencies) Lookup(name string) (any, bool) {
	if value, ok := d.mocks[name]; ok {
		return value, true
	}

	if value, ok := d.stored[name]; ok {
		return value, true
	}

	if d.ctx == nil {
		return nil, false
	}

	return d.ctx.Loaded(name)
}

// Mocks returns a copy of the dependencies mocked for this case by the group,
// the case, or both.
func (d *Dependencies) Mocks() View {
	return maps.Clone(d.mocks)
}

// Store returns a copy of the dependencies the case asked to store, mocked or not.
func (d *Dependencies) Store() View {
	return maps.Clone(d.stored)
}

// T returns the reporter of the running case. Assertions made through it fail
// that case alone.
func (d *Dependencies) T() TestReporter {
	return d.reporter
}
