package core

import "errors"

// Declaration errors are raised synchronously; resolution errors fail the case.
var (
	ErrDuplicateConfig      = errors.New("duplicate suite configuration")
	ErrMissingConfig        = errors.New("missing suite configuration")
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	ErrMisconfiguredCase    = errors.New("misconfigured case")
	ErrUnbalancedLeave      = errors.New("leave without matching enter")
	ErrCaseTimeout          = errors.New("case timed out")
)
