package core

import (
	"maps"
	"slices"
)

// Mocks maps dependency names to substitutes. A value is either used as-is or,
// when it is a MockFunc (or a plain func() any), invoked once per case to
// produce the substitute.
type Mocks map[string]any

// MockFunc produces a fresh substitute for each case.
type MockFunc func() any

// Literal wraps a value that must be used as-is even if it looks like a factory.
func Literal(value any) any {
	return literal{value: value}
}

// Plan is the merged result for one case: what to override and what to expose.
type Plan struct {
	Module string
	Mocks  Mocks
	Store  []string
}

// Names returns the module (if any) followed by the stored names, in request order.
func (p Plan) Names() []string {
	names := make([]string, 0, len(p.Store)+1)
	if p.Module != "" {
		names = append(names, p.Module)
	}

	return append(names, p.Store...)
}

// Merge combines the group configuration (if any) with the case declaration.
// The group factory is invoked fresh; case mocks win per key; factories are
// materialised so each case gets its own instances.
func Merge(group *SuiteConfig, c Case) Plan {
	merged := Mocks{}

	var module string

	if group != nil {
		module = group.Module

		if group.Mock != nil {
			maps.Copy(merged, group.Mock())
		}
	}

	maps.Copy(merged, c.Mock)

	for name, value := range merged {
		merged[name] = materialise(value)
	}

	return Plan{
		Module: module,
		Mocks:  merged,
		Store:  slices.Clone(c.Store),
	}
}

type literal struct {
	value any
}

func materialise(value any) any {
	switch v := value.(type) {
	case literal:
		return v.value
	case MockFunc:
		return v()
	case func() any:
		return v()
	default:
		return value
	}
}
