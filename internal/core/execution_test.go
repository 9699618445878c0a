package core_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impsuite/internal/core"
	"github.com/toejough/impsuite/loader"
)

func TestExecution_SyncLifecycle(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine := newEngine(t)
	enter(t, engine, "Eggs", &core.Group{Module: "eggs"})

	exec, err := engine.Begin("cracks", core.Case{Expect: func(e *Eggs) { e.Cracked++ }})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(exec.State()).To(Equal(core.StatePending))
	g.Expect(exec.ID()).To(BeEmpty())

	_, err = exec.Invoke(t)
	g.Expect(err).To(MatchError(core.ErrMisconfiguredCase))

	loaded := exec.Load()
	g.Expect(exec.State()).To(Equal(core.StateLoading))
	g.Expect(<-loaded).To(Succeed())
	g.Expect(exec.ID()).To(HavePrefix("Eggs > cracks #"))

	g.Expect(<-exec.Load()).To(MatchError(core.ErrMisconfiguredCase))

	completion, err := exec.Invoke(t)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(exec.State()).To(Equal(core.StateInvoking))
	g.Expect(completion.Done()).To(BeClosed())

	exec.Finish()
	g.Expect(exec.State()).To(Equal(core.StateCompleted))
}

func TestExecution_AsyncCompletesOnlyWhenDone(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine := newEngine(t)

	var done core.Done

	exec, err := engine.Begin("waits", core.Case{
		Expect: func(_ any, _ *core.Dependencies, d core.Done) { done = d },
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(<-exec.Load()).To(Succeed())

	completion, err := exec.Invoke(t)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(completion.Done()).NotTo(BeClosed())

	done()
	done()

	g.Expect(completion.Done()).To(BeClosed())

	exec.Finish()
	g.Expect(exec.State()).To(Equal(core.StateCompleted))
}

func TestExecution_DeclaredButUnusedDoneIsAsync(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine := newEngine(t)

	exec, err := engine.Begin("ignores done", core.Case{
		Expect: func(any, *core.Dependencies, core.Done) {},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(<-exec.Load()).To(Succeed())

	completion, err := exec.Invoke(t)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(completion.Done()).NotTo(BeClosed())

	exec.Abandon()
	exec.Finish()
	g.Expect(exec.State()).To(Equal(core.StateTimedOut))
}

func TestExecution_LateDoneAfterAbandonIsIgnored(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine := newEngine(t)

	var done core.Done

	exec, _ := engine.Begin("too slow", core.Case{
		Expect: func(_ any, _ *core.Dependencies, d core.Done) { done = d },
	})
	<-exec.Load()

	completion, err := exec.Invoke(t)
	g.Expect(err).NotTo(HaveOccurred())

	exec.Abandon()
	exec.Finish()

	done()

	g.Expect(completion.Done()).To(BeClosed())
	g.Expect(exec.State()).To(Equal(core.StateTimedOut))
}

func TestExecution_ResolutionErrorWrapsBothSentinels(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine := newEngine(t)
	enter(t, engine, "Burnt", &core.Group{Module: "burnt"})

	exec, err := engine.Begin("smokes", core.Case{Expect: func(any) {}})
	g.Expect(err).NotTo(HaveOccurred())

	err = <-exec.Load()
	g.Expect(err).To(MatchError(core.ErrUnresolvedDependency))
	g.Expect(err).To(MatchError(loader.ErrUnresolvedDependency))
	g.Expect(err.Error()).To(ContainSubstring(`"smokes"`))

	exec.Fail(err)
	g.Expect(exec.State()).To(Equal(core.StateFailed))

	exec.Finish()
	g.Expect(exec.State()).To(Equal(core.StateFailed))
}

func TestExecution_FailIgnoredWhenNotRunning(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	exec, err := newEngine(t).Begin("idle", core.Case{Expect: func(any) {}})
	g.Expect(err).NotTo(HaveOccurred())

	exec.Fail(core.ErrCaseTimeout)
	exec.Abandon()
	g.Expect(exec.State()).To(Equal(core.StatePending))
}

func TestExecution_IdenticalDescriptionsGetDistinctContexts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine := newEngine(t)
	enter(t, engine, "Eggs", &core.Group{Module: "eggs"})

	var eggs []*Eggs

	ids := make([]string, 0, 2)

	for range 2 {
		exec, err := engine.Begin("same", core.Case{Expect: func(e *Eggs) { eggs = append(eggs, e) }})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(<-exec.Load()).To(Succeed())

		_, err = exec.Invoke(t)
		g.Expect(err).NotTo(HaveOccurred())

		exec.Finish()

		ids = append(ids, exec.ID())
	}

	g.Expect(ids[0]).NotTo(Equal(ids[1]))
	g.Expect(ids).To(HaveEach(HavePrefix("Eggs > same #")))
	g.Expect(eggs[0]).NotTo(BeIdenticalTo(eggs[1]))
}

func TestState_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.StatePending.String()).To(Equal("pending"))
	g.Expect(core.StateLoading.String()).To(Equal("loading"))
	g.Expect(core.StateInvoking.String()).To(Equal("invoking"))
	g.Expect(core.StateCompleted.String()).To(Equal("completed"))
	g.Expect(core.StateTimedOut.String()).To(Equal("timed out"))
	g.Expect(core.StateFailed.String()).To(Equal("failed"))
	g.Expect(core.State(42).String()).To(Equal("State(42)"))
}

func TestCompletion_SignalIsIdempotent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine := newEngine(t)

	exec, _ := engine.Begin("sync", core.Case{Expect: func(any) {}})
	<-exec.Load()

	completion, err := exec.Invoke(t)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(completion.Signal).NotTo(Panic())
	g.Expect(completion.Done()).To(BeClosed())
}
