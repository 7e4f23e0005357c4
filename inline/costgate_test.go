package inline

import (
	"testing"

	"github.com/arneph/inliner/cost"
	"github.com/arneph/inliner/ir"
)

// fixedModel returns a preset cost.Verdict per call site, keyed by
// pointer identity, so tests can script exact verdicts without a real
// cost heuristic.
type fixedModel map[*ir.CallInst]cost.Verdict

func (m fixedModel) GetInlineCost(site *ir.CallInst) cost.Verdict {
	if v, ok := m[site]; ok {
		return v
	}
	return cost.NeverVerdict()
}

func TestShouldInlineAlwaysAndNever(t *testing.T) {
	module := ir.NewModule()
	caller := ir.NewFunction("caller", ir.LinkageExternal)
	module.AddFunc(caller)
	callee := ir.NewFunction("callee", ir.LinkageLocal)
	module.AddFunc(callee)

	alwaysSite := ir.NewCallInst(callee)
	caller.EntryBlock().AddInst(alwaysSite)
	neverSite := ir.NewCallInst(callee)
	caller.EntryBlock().AddInst(neverSite)

	model := fixedModel{alwaysSite: cost.AlwaysVerdict(), neverSite: cost.NeverVerdict()}
	gate := &CostGate{Model: model, Module: module, Sink: nopSink{}, Stats: &Stats{}}

	if !gate.ShouldInline(alwaysSite) {
		t.Fatalf("Always verdict must always inline")
	}
	if gate.ShouldInline(neverSite) {
		t.Fatalf("Never verdict must never inline")
	}
}

func TestShouldInlineRejectsCostAtOrAboveThreshold(t *testing.T) {
	module := ir.NewModule()
	caller := ir.NewFunction("caller", ir.LinkageExternal)
	module.AddFunc(caller)
	callee := ir.NewFunction("callee", ir.LinkageLocal)
	module.AddFunc(callee)

	site := ir.NewCallInst(callee)
	caller.EntryBlock().AddInst(site)

	model := fixedModel{site: cost.NumericVerdict(150, 150)}
	gate := &CostGate{Model: model, Module: module, Sink: nopSink{}, Stats: &Stats{}}

	if gate.ShouldInline(site) {
		t.Fatalf("cost >= threshold must never inline")
	}
}

// TestDeferralMatchesWorkedExample steps through the deferral formula
// numerically: a local caller with 3 outer callers each at
// Numeric{100,150}, inlining a call with Numeric{120,200} and
// CallPenalty=5. CandidateCost = 120-(5+1) = 114; every outer
// costDelta (50) <= 114, so all three block; totalSecondaryCost = 300;
// with LastCallToStaticBonus=0 that stays >= V.Cost (120), so the
// heuristic must refuse to defer.
func TestDeferralMatchesWorkedExample(t *testing.T) {
	module := ir.NewModule()

	b := ir.NewFunction("small_local_b", ir.LinkageLocal)
	module.AddFunc(b)
	c := ir.NewFunction("C", ir.LinkageLocal)
	module.AddFunc(c)

	innerSite := ir.NewCallInst(c)
	b.EntryBlock().AddInst(innerSite)

	model := fixedModel{innerSite: cost.NumericVerdict(120, 200)}

	outerSites := make([]*ir.CallInst, 3)
	for i := 0; i < 3; i++ {
		caller := ir.NewFunction("caller", ir.LinkageExternal)
		module.AddFunc(caller)
		site := ir.NewCallInst(b)
		caller.EntryBlock().AddInst(site)
		outerSites[i] = site
		model[site] = cost.NumericVerdict(100, 150)
	}

	gate := &CostGate{
		Model:     model,
		Constants: cost.Constants{CallPenalty: 5, LastCallToStaticBonus: 0},
		Module:    module,
		Sink:      nopSink{},
		Stats:     &Stats{},
	}

	v := model.GetInlineCost(innerSite)
	if gate.shouldBeDeferred(b, innerSite, v) {
		t.Fatalf("expected the worked example to resolve to 'do not defer' (300 >= 120)")
	}
	if gate.Stats.NumCallerCallersAnalyzed != 3 {
		t.Fatalf("expected 3 outer callers analyzed, got %d", gate.Stats.NumCallerCallersAnalyzed)
	}
}

// TestDeferralCanActuallyDefer exercises the opposite outcome: with a
// single cheap, blocking outer caller, totalSecondaryCost stays below
// V.Cost and the heuristic must defer the inline. CandidateCost =
// 120-(5+1) = 114; the outer call's costDelta = 100-50 = 50 <= 114, so
// it blocks and contributes its cost (50) to totalSecondaryCost; 50 <
// 120 so the inline is deferred.
func TestDeferralCanActuallyDefer(t *testing.T) {
	module := ir.NewModule()

	b := ir.NewFunction("small_local_b", ir.LinkageLocal)
	module.AddFunc(b)
	c := ir.NewFunction("C", ir.LinkageLocal)
	module.AddFunc(c)

	innerSite := ir.NewCallInst(c)
	b.EntryBlock().AddInst(innerSite)
	model := fixedModel{innerSite: cost.NumericVerdict(120, 200)}

	caller := ir.NewFunction("caller", ir.LinkageExternal)
	module.AddFunc(caller)
	outerSite := ir.NewCallInst(b)
	caller.EntryBlock().AddInst(outerSite)
	model[outerSite] = cost.NumericVerdict(50, 100)

	gate := &CostGate{
		Model:     model,
		Constants: cost.Constants{CallPenalty: 5, LastCallToStaticBonus: 0},
		Module:    module,
		Sink:      nopSink{},
		Stats:     &Stats{},
	}

	v := model.GetInlineCost(innerSite)
	if !gate.shouldBeDeferred(b, innerSite, v) {
		t.Fatalf("expected a single cheap blocking outer call to defer the inline")
	}
}
