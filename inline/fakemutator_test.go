package inline

import "github.com/arneph/inliner/ir"

// fakeMutator is a minimal IRMutator for tests that exercise the
// action/driver bookkeeping without needing a real clone-and-splice
// implementation (that's ssamutate's job, tested separately against
// the real Mutator).
// It removes the call instruction (as a real InlineFunction would) and
// reports whatever allocas/calls the test pre-wired into it.
type fakeMutator struct {
	// reportFor maps a call site to the (allocas, newCalls) it should
	// report back through Info when inlined.
	reportFor map[*ir.CallInst]fakeReport
	// refuse marks call sites InlineFunction should fail for.
	refuse map[*ir.CallInst]bool
}

type fakeReport struct {
	allocas  []*ir.AllocaInst
	newCalls []*ir.CallInst
}

func newFakeMutator() *fakeMutator {
	return &fakeMutator{reportFor: make(map[*ir.CallInst]fakeReport), refuse: make(map[*ir.CallInst]bool)}
}

func (m *fakeMutator) InlineFunction(site *ir.CallInst, info *Info, aa AliasResults, insertLifetime bool) bool {
	if m.refuse[site] {
		return false
	}
	caller := callerOf(site)
	caller.RemoveCallInst(site)

	rep := m.reportFor[site]
	for _, nc := range rep.newCalls {
		caller.EntryBlock().AddInst(nc)
	}
	info.StaticAllocas = append(info.StaticAllocas, rep.allocas...)
	info.InlinedCalls = append(info.InlinedCalls, rep.newCalls...)
	return true
}
