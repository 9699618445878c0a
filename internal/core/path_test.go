package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impsuite/internal/core"
	"pgregory.net/rapid"
)

func TestSuitePath_ChildDoesNotAlias(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	base := make(core.SuitePath, 1, 8)
	base[0] = "Eggs"

	scrambled := base.Child("Scrambled")
	poached := base.Child("Poached")

	g.Expect(scrambled).To(Equal(core.SuitePath{"Eggs", "Scrambled"}))
	g.Expect(poached).To(Equal(core.SuitePath{"Eggs", "Poached"}))
	g.Expect(base).To(Equal(core.SuitePath{"Eggs"}))
}

func TestSuitePath_Equal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.SuitePath{"a", "b"}.Equal(core.SuitePath{"a", "b"})).To(BeTrue())
	g.Expect(core.SuitePath{"a"}.Equal(core.SuitePath{"a", "b"})).To(BeFalse())
	g.Expect(core.SuitePath{"a", "b"}.Equal(core.SuitePath{"a"})).To(BeFalse())
	g.Expect(core.SuitePath{"a", "c"}.Equal(core.SuitePath{"a", "b"})).To(BeFalse())
	g.Expect(core.SuitePath{}.Equal(nil)).To(BeTrue())
}

func TestSuitePath_ParentOfRootIsRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.SuitePath{}.Parent().IsRoot()).To(BeTrue())
	g.Expect(core.SuitePath{"a", "b"}.Parent()).To(Equal(core.SuitePath{"a"}))
	g.Expect(core.SuitePath{"a", "b"}.String()).To(Equal("a > b"))
}

func TestPathTracker_LeaveWithoutEnter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tracker := core.NewPathTracker()

	_, err := tracker.Leave()
	g.Expect(errors.Is(err, core.ErrUnbalancedLeave)).To(BeTrue())
}

func TestPathTracker_CurrentIsACopy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tracker := core.NewPathTracker()
	tracker.Enter("Eggs")

	current := tracker.Current()
	current[0] = "Spam"

	g.Expect(tracker.Current()).To(Equal(core.SuitePath{"Eggs"}))
}

// TestPathTracker_PushPop_Property proves the tracker always reflects exactly
// the labels entered and not yet left.
func TestPathTracker_PushPop_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		tracker := core.NewPathTracker()
		model := core.SuitePath{}

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for range steps {
			if len(model) > 0 && rapid.Bool().Draw(rt, "leave") {
				left, err := tracker.Leave()
				if err != nil {
					rt.Fatalf("unexpected leave error: %v", err)
				}

				if !left.Equal(model) {
					rt.Fatalf("left %v, want %v", left, model)
				}

				model = model.Parent()
			} else {
				label := rapid.StringMatching(`[A-Za-z ]{1,8}`).Draw(rt, "label")
				model = model.Child(label)
				tracker.Enter(label)
			}

			if !tracker.Current().Equal(model) {
				rt.Fatalf("tracker at %v, want %v", tracker.Current(), model)
			}

			if tracker.Depth() != len(model) {
				rt.Fatalf("depth %d, want %d", tracker.Depth(), len(model))
			}
		}
	})
}
