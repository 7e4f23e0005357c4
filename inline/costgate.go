package inline

import (
	"github.com/arneph/inliner/cost"
	"github.com/arneph/inliner/ir"
)

// CostGate wraps the external cost model and applies the deferral
// heuristic.
type CostGate struct {
	Model     cost.Model
	Constants cost.Constants
	Module    *ir.Module
	Sink      Sink
	Stats     *Stats
}

// ShouldInline consults the cost model once for site and applies the
// deferral heuristic to any profitable-looking Numeric verdict. It
// emits a remark at every reject point and for Always verdicts; the
// accept remark for Numeric verdicts comes from the inline action once
// the mutation actually lands.
func (g *CostGate) ShouldInline(site *ir.CallInst) bool {
	v := g.Model.GetInlineCost(site)
	caller := callerOf(site)
	calleeName := "<indirect>"
	if site.Callee != nil {
		calleeName = site.Callee.Name
	}

	switch v.Kind {
	case cost.Always:
		g.emit(calleeName, caller.Name, v, ReasonAlwaysInline)
		return true

	case cost.Never:
		g.emit(calleeName, caller.Name, v, ReasonNeverInline)
		return false

	default: // cost.Numeric
		if v.Cost >= v.Threshold {
			g.emit(calleeName, caller.Name, v, ReasonTooCostly)
			return false
		}
		if g.shouldBeDeferred(caller, site, v) {
			g.emit(calleeName, caller.Name, v, ReasonIncreaseCostInOtherContexts)
			return false
		}
		return true
	}
}

func (g *CostGate) emit(callee, caller string, v cost.Verdict, reason RemarkReason) {
	g.Sink.Emit(Remark{Callee: callee, Caller: caller, Cost: v.Cost, Threshold: v.Threshold, Reason: reason})
}

// shouldBeDeferred refuses a locally profitable inline when it would
// inflate caller past its own inlining threshold at caller's call
// sites, preventing a more profitable outer inline.
func (g *CostGate) shouldBeDeferred(caller *ir.Function, site *ir.CallInst, v cost.Verdict) bool {
	if !caller.Linkage.CanBeInlineCandidateForDeferral() {
		return false
	}

	candidateCost := v.Cost - (g.Constants.CallPenalty + 1)
	callerWillBeRemoved := caller.Linkage == ir.LinkageLocal
	if caller.HasNonCallReference() {
		callerWillBeRemoved = false
	}

	outerInlineBlocked := false
	totalSecondaryCost := 0

	users := g.Module.UsersOf(caller)
	g.Stats.NumCallerCallersAnalyzed += len(users)
	for _, u := range users {
		v2 := g.Model.GetInlineCost(u)
		switch v2.Kind {
		case cost.Never:
			callerWillBeRemoved = false
		case cost.Always:
			// Free outer inline; doesn't block anything.
		default:
			if v2.CostDelta() <= candidateCost {
				outerInlineBlocked = true
				totalSecondaryCost += v2.Cost
			}
		}
	}

	if callerWillBeRemoved && len(users) > 0 {
		totalSecondaryCost -= g.Constants.LastCallToStaticBonus
	}

	return outerInlineBlocked && totalSecondaryCost < v.Cost
}

func callerOf(site *ir.CallInst) *ir.Function {
	b := site.Parent()
	if b == nil {
		panic("inline: call site has no parent block")
	}
	return b.Func
}
