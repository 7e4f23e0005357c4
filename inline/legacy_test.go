package inline

import (
	"testing"

	"github.com/arneph/inliner/callgraph"
	"github.com/arneph/inliner/cost"
	"github.com/arneph/inliner/ir"
)

func newLegacyDriver(module *ir.Module, graph *callgraph.CallGraph, model cost.Model, mutator IRMutator) *Legacy {
	stats := &Stats{}
	history := NewHistory()
	gate := &CostGate{Model: model, Constants: cost.Constants{CallPenalty: 5}, Module: module, Sink: nopSink{}, Stats: stats}
	action := &Action{Mutator: mutator, Sink: nopSink{}, Stats: stats, History: history}
	return &Legacy{Module: module, Graph: graph, CostGate: gate, Action: action, History: history, Stats: stats}
}

func TestLegacyTrivialInline(t *testing.T) {
	module := ir.NewModule()
	g := ir.NewFunction("g", ir.LinkageLocal)
	module.AddFunc(g)
	f := ir.NewFunction("f", ir.LinkageExternal)
	site := ir.NewCallInst(g)
	f.EntryBlock().AddInst(site)
	module.AddFunc(f)

	graph := callgraph.Build(module, f)
	model := fixedModel{site: cost.AlwaysVerdict()}
	driver := newLegacyDriver(module, graph, model, newFakeMutator())

	for _, scc := range graph.SCCs() {
		driver.RunSCC(scc)
	}

	if driver.Stats.NumInlined != 1 {
		t.Fatalf("expected NumInlined=1, got %d", driver.Stats.NumInlined)
	}
	if f.EntryBlock().IndexOf(site) != -1 {
		t.Fatalf("expected the call site consumed")
	}
}

// TestLegacyCycleSuppression exercises the anti-cycle guard directly:
// inlining b into a exposes a new call back to b; since that new call
// site's history chain already contains b, it must be skipped rather
// than inlined again, which is exactly what makes the mutual-recursion
// case terminate instead of looping forever.
func TestLegacyCycleSuppression(t *testing.T) {
	module := ir.NewModule()
	b := ir.NewFunction("b", ir.LinkageLocal)
	module.AddFunc(b)
	a := ir.NewFunction("a", ir.LinkageExternal)
	site1 := ir.NewCallInst(b)
	a.EntryBlock().AddInst(site1)
	module.AddFunc(a)

	// The exposed call (site2) and anything it would in turn expose
	// (site3) all target b, modeling b being recursive; if the
	// anti-cycle check didn't fire, this would recurse without bound.
	site2 := ir.NewCallInst(b)
	site3 := ir.NewCallInst(b)
	m := newFakeMutator()
	m.reportFor[site1] = fakeReport{newCalls: []*ir.CallInst{site2}}
	m.reportFor[site2] = fakeReport{newCalls: []*ir.CallInst{site3}}
	m.reportFor[site3] = fakeReport{newCalls: []*ir.CallInst{ir.NewCallInst(b)}}

	model := fixedModel{site1: cost.AlwaysVerdict(), site2: cost.AlwaysVerdict(), site3: cost.AlwaysVerdict()}
	graph := callgraph.Build(module, a)
	driver := newLegacyDriver(module, graph, model, m)

	for _, scc := range graph.SCCs() {
		driver.RunSCC(scc)
	}

	if driver.Stats.NumInlined != 1 {
		t.Fatalf("expected exactly one inline (site1); the anti-cycle check must refuse site2, got NumInlined=%d", driver.Stats.NumInlined)
	}
}

// TestLegacyMutualRecursionTerminates uses the real mutual-recursion
// module shape (a and b calling each other, forming a 2-node SCC). It
// asserts only that the driver terminates and that the inline-history
// invariant holds: no function appears twice on any root-to-leaf chain.
func TestLegacyMutualRecursionTerminates(t *testing.T) {
	module := ir.NewModule()
	a := ir.NewFunction("a", ir.LinkageLocal)
	b := ir.NewFunction("b", ir.LinkageLocal)
	siteAtoB := ir.NewCallInst(b)
	a.EntryBlock().AddInst(siteAtoB)
	siteBtoA := ir.NewCallInst(a)
	b.EntryBlock().AddInst(siteBtoA)
	module.AddFunc(a)
	module.AddFunc(b)

	graph := callgraph.Build(module, a)

	// Each inline symmetrically exposes the call that was on the other
	// side of the cycle, the way splicing a real callee body would.
	m := newFakeMutator()
	exposedToA := ir.NewCallInst(a)
	exposedToB := ir.NewCallInst(b)
	m.reportFor[siteAtoB] = fakeReport{newCalls: []*ir.CallInst{exposedToA}}
	m.reportFor[siteBtoA] = fakeReport{newCalls: []*ir.CallInst{exposedToB}}
	m.reportFor[exposedToA] = fakeReport{newCalls: []*ir.CallInst{ir.NewCallInst(b)}}
	m.reportFor[exposedToB] = fakeReport{newCalls: []*ir.CallInst{ir.NewCallInst(a)}}

	model := fixedModel{}
	for _, site := range []*ir.CallInst{siteAtoB, siteBtoA, exposedToA, exposedToB} {
		model[site] = cost.AlwaysVerdict()
	}

	driver := newLegacyDriver(module, graph, model, m)
	for _, scc := range graph.SCCs() {
		driver.RunSCC(scc)
	}

	if driver.Stats.NumInlined == 0 {
		t.Fatalf("expected at least one inline to have happened")
	}
	chain := driver.History.Chain(len(driver.History.entries) - 1)
	seen := make(map[*ir.Function]bool)
	for _, f := range chain {
		if seen[f] {
			t.Fatalf("function %s repeats on the final history chain, violating the anti-cycle invariant", f.Name)
		}
		seen[f] = true
	}
}

func TestLegacyDeletesDeadLocalCallee(t *testing.T) {
	module := ir.NewModule()
	g := ir.NewFunction("g", ir.LinkageLocal)
	module.AddFunc(g)
	f := ir.NewFunction("f", ir.LinkageExternal)
	site := ir.NewCallInst(g)
	f.EntryBlock().AddInst(site)
	module.AddFunc(f)

	graph := callgraph.Build(module, f)
	model := fixedModel{site: cost.AlwaysVerdict()}
	driver := newLegacyDriver(module, graph, model, newFakeMutator())

	for _, scc := range graph.SCCs() {
		driver.RunSCC(scc)
	}

	if driver.Stats.NumDeleted != 1 {
		t.Fatalf("expected g deleted once it has no remaining callers, got NumDeleted=%d", driver.Stats.NumDeleted)
	}
	if module.FuncByName("g") != nil {
		t.Fatalf("expected g removed from the module")
	}
}

type setTLI map[string]bool

func (s setTLI) IsReadonlyRoutine(name string) bool { return s[name] }

// TestLegacyDeletesDeadLibraryCall covers the TargetLibraryInfo path:
// the call isn't marked Readonly in the IR, but the callee is a known
// pure library routine and the result is unused.
func TestLegacyDeletesDeadLibraryCall(t *testing.T) {
	module := ir.NewModule()
	cosf := ir.NewFunction("cosf", ir.LinkageExternal)
	cosf.Attrs = cosf.Attrs.With(ir.AttrNoInline)
	module.AddFunc(cosf)
	caller := ir.NewFunction("caller", ir.LinkageExternal)
	site := ir.NewCallInst(cosf, &ir.ConstInt{Val: 1})
	site.Result = &ir.Temp{Name: "v"}
	caller.EntryBlock().AddInst(site)
	module.AddFunc(caller)

	graph := callgraph.Build(module, caller)
	driver := newLegacyDriver(module, graph, fixedModel{}, newFakeMutator())
	driver.TLI = setTLI{"cosf": true}

	for _, scc := range graph.SCCs() {
		driver.RunSCC(scc)
	}

	if driver.Stats.NumCallsDeleted != 1 {
		t.Fatalf("expected the library call removed via TLI classification, got NumCallsDeleted=%d", driver.Stats.NumCallsDeleted)
	}
	if caller.EntryBlock().IndexOf(site) != -1 {
		t.Fatalf("expected the dead library call erased")
	}
}

func TestLegacyDeletesTriviallyDeadCall(t *testing.T) {
	module := ir.NewModule()
	pure := ir.NewFunction("pure", ir.LinkageLocal)
	module.AddFunc(pure)
	caller := ir.NewFunction("caller", ir.LinkageExternal)
	site := ir.NewCallInst(pure)
	site.Readonly = true
	caller.EntryBlock().AddInst(site)
	module.AddFunc(caller)

	graph := callgraph.Build(module, caller)
	model := fixedModel{}
	driver := newLegacyDriver(module, graph, model, newFakeMutator())

	for _, scc := range graph.SCCs() {
		driver.RunSCC(scc)
	}

	if driver.Stats.NumCallsDeleted != 1 {
		t.Fatalf("expected the trivially dead call removed, got NumCallsDeleted=%d", driver.Stats.NumCallsDeleted)
	}
	if driver.Stats.NumInlined != 0 {
		t.Fatalf("a deleted dead call must not count as an inline")
	}
	if caller.EntryBlock().IndexOf(site) != -1 {
		t.Fatalf("expected the dead call instruction erased")
	}
}
