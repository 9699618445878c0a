package core

import "log/slog"

// Sweeper drops a group's configuration once the runner reports that the group
// finished, so the registry stays bounded and paths can be reused.
type Sweeper struct {
	registry *Registry
	log      *slog.Logger
}

// NewSweeper creates a sweeper for registry.
func NewSweeper(registry *Registry, log *slog.Logger) *Sweeper {
	return &Sweeper{registry: registry, log: log}
}

// GroupFinished handles the runner's group-completion event. Disabled and
// unconfigured groups never registered anything, so absence is not an error.
func (s *Sweeper) GroupFinished(path SuitePath) {
	_ = s.Sweep(path, false)
}

// Sweep removes the configuration for path.
func (s *Sweeper) Sweep(path SuitePath, failHard bool) error {
	err := s.registry.Remove(path, failHard)
	if err != nil {
		s.log.Warn("sweep failed", "path", path.String(), "error", err)

		return err
	}

	s.log.Debug("swept suite", "path", path.String())

	return nil
}
