// Package match provides gomega-compatible matchers for the dependency sets
// impsuite hands to case bodies. It is designed to be dot-imported alongside
// gomega:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/impsuite/match"
//	)
//
//	g.Expect(deps).To(HaveMock("eggs"))
//	g.Expect(deps).NotTo(HaveStored("eggs"))
package match

import (
	"errors"
	"fmt"
	"slices"

	"github.com/toejough/impsuite/internal/core"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
	NegatedFailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// HaveMock matches a *Dependencies whose mocked view contains name.
func HaveMock(name string) Matcher {
	return &viewMatcher{name: name, kind: "mocked", view: (*core.Dependencies).Mocks}
}

// HaveStored matches a *Dependencies whose stored view contains name.
func HaveStored(name string) Matcher {
	return &viewMatcher{name: name, kind: "stored", view: (*core.Dependencies).Store}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	g.Expect(deps.Get("eggs")).To(Satisfy(func(e *Eggs) error {
//	    if !e.Mocked { return errors.New("eggs are real") }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %v not to match anything", actual)
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfyMatcher[T]) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("value %v unexpectedly satisfies predicate", actual)
}

type viewMatcher struct {
	name string
	kind string
	view func(*core.Dependencies) core.View
}

func (m *viewMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %q to be %s, %s are %v", m.name, m.kind, m.kind, m.names(actual))
}

func (m *viewMatcher) Match(actual any) (bool, error) {
	deps, ok := actual.(*core.Dependencies)
	if !ok || deps == nil {
		return false, fmt.Errorf("%w: expected *Dependencies, got %T", errTypeMismatch, actual)
	}

	_, found := m.view(deps)[m.name]

	return found, nil
}

func (m *viewMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %q not to be %s, %s are %v", m.name, m.kind, m.kind, m.names(actual))
}

func (m *viewMatcher) names(actual any) []string {
	deps, ok := actual.(*core.Dependencies)
	if !ok || deps == nil {
		return nil
	}

	names := make([]string, 0, len(m.view(deps)))
	for name := range m.view(deps) {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
