package impsuite

import "testing"

// Bindings is a swappable set of group/case declaration functions, for code
// that declares tests through package-level function variables.
type Bindings struct {
	Describe  func(t *testing.T, label, module string, body func(t *testing.T)) bool
	XDescribe func(t *testing.T, label, module string, body func(t *testing.T)) bool
	It        func(t *testing.T, description string, c Case) bool
	XIt       func(t *testing.T, description string, c Case) bool
}

// Bindings returns the suite's declaration functions.
func (s *Suite) Bindings() Bindings {
	return Bindings{
		Describe:  s.Describe,
		XDescribe: s.XDescribe,
		It:        s.It,
		XIt:       s.XIt,
	}
}

// Install points target at the suite's declaration functions and returns the
// bindings it replaced, for Uninstall.
func (s *Suite) Install(target *Bindings) Bindings {
	previous := *target
	*target = s.Bindings()

	return previous
}

// Uninstall restores bindings previously returned by Install.
func Uninstall(target *Bindings, previous Bindings) {
	*target = previous
}
