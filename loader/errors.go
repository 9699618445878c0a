package loader

import "errors"

// Exported variables.
var (
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	ErrCircularDependency   = errors.New("circular dependency")
	ErrDuplicateDefinition  = errors.New("duplicate definition")
	ErrInvalidDefinition    = errors.New("invalid definition")
)
