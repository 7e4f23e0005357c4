package cost

import "github.com/arneph/inliner/ir"

// HeuristicModel is a reference Model: small enough to reason about in
// tests, but structured the way a real cost model is. Cost is charged
// per callee instruction, AlwaysInline/NoInline attributes
// short-circuit the numeric computation, the last remaining caller of a
// discardable callee gets a threshold bonus, and an optional
// ProfileSummary scales the threshold for hot and cold call sites. The
// drivers consume any Model; this one exists so the module runs end to
// end without requiring every caller to supply their own.
type HeuristicModel struct {
	Module        *ir.Module
	Constants     Constants
	BaseThreshold int
	CostPerInst   int

	// Profile, if non-nil, classifies call sites as hot or cold.
	Profile ProfileSummary
}

const (
	hotCallSiteMultiplier = 3
	coldCallSiteDivisor   = 5
)

// NewHeuristicModel creates a HeuristicModel over module with the given
// constants and tuning parameters.
func NewHeuristicModel(module *ir.Module, constants Constants, baseThreshold, costPerInst int) *HeuristicModel {
	return &HeuristicModel{
		Module:        module,
		Constants:     constants,
		BaseThreshold: baseThreshold,
		CostPerInst:   costPerInst,
	}
}

// GetInlineCost implements Model.
func (m *HeuristicModel) GetInlineCost(site *ir.CallInst) Verdict {
	callee := site.Callee
	if callee == nil {
		return NeverVerdict()
	}
	if callee.Declaration {
		return NeverVerdict()
	}
	if callee.Attrs.Has(ir.AttrNoInline) {
		return NeverVerdict()
	}
	if callee.Attrs.Has(ir.AttrAlwaysInline) {
		return AlwaysVerdict()
	}

	instCount := countInsts(callee)
	costVal := instCount*m.CostPerInst + m.Constants.CallPenalty
	threshold := m.BaseThreshold
	if m.Profile != nil {
		if m.Profile.IsHotCallSite(site) {
			threshold *= hotCallSiteMultiplier
		} else if m.Profile.IsColdCallSite(site) {
			threshold /= coldCallSiteDivisor
		}
	}
	if m.isSoleCaller(site) {
		threshold += m.Constants.LastCallToStaticBonus
	}
	return NumericVerdict(costVal, threshold)
}

func (m *HeuristicModel) isSoleCaller(site *ir.CallInst) bool {
	if !site.Callee.Linkage.IsDiscardableIfUnused() {
		return false
	}
	users := m.Module.UsersOf(site.Callee)
	return len(users) == 1 && users[0] == site
}

func countInsts(f *ir.Function) int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Insts)
	}
	return n
}
