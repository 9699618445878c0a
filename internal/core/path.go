// Package core provides the internal implementation of impsuite's configuration
// registry and per-case dependency resolution engine.
package core

import (
	"slices"
	"strings"
	"sync"
)

// SuitePath is the root-first sequence of group labels identifying a group's
// position in the nesting hierarchy. Methods never modify the receiver.
type SuitePath []string

// Child returns a new path with label appended.
func (p SuitePath) Child(label string) SuitePath {
	child := make(SuitePath, len(p), len(p)+1)
	copy(child, p)

	return append(child, label)
}

// Equal reports whether both paths have the same length and labels.
func (p SuitePath) Equal(other SuitePath) bool {
	return slices.Equal(p, other)
}

// IsRoot reports whether the path is empty.
func (p SuitePath) IsRoot() bool {
	return len(p) == 0
}

// Parent returns a copy of the path without its last label. The parent of the
// root is the root.
func (p SuitePath) Parent() SuitePath {
	if len(p) == 0 {
		return SuitePath{}
	}

	return slices.Clone(p[:len(p)-1])
}

func (p SuitePath) String() string {
	return strings.Join(p, " > ")
}

// PathTracker follows group enter/leave events with a strict push/pop stack.
type PathTracker struct {
	mu    sync.Mutex
	stack SuitePath
}

// NewPathTracker creates an empty tracker positioned at the root.
func NewPathTracker() *PathTracker {
	return &PathTracker{}
}

// Current returns a copy of the path of the group currently being declared or run.
func (pt *PathTracker) Current() SuitePath {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	return slices.Clone(pt.stack)
}

// Depth returns the number of groups currently entered.
func (pt *PathTracker) Depth() int {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	return len(pt.stack)
}

// Enter pushes label and returns the resulting path.
func (pt *PathTracker) Enter(label string) SuitePath {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.stack = pt.stack.Child(label)

	return slices.Clone(pt.stack)
}

// Leave pops the innermost label and returns the path that was left.
func (pt *PathTracker) Leave() (SuitePath, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if len(pt.stack) == 0 {
		return nil, ErrUnbalancedLeave
	}

	left := pt.stack
	pt.stack = pt.stack.Parent()

	return left, nil
}
