package cost

import "github.com/arneph/inliner/ir"

// Model is the external cost model the core consults once per call
// site. It must be pure with respect to IR state at the moment of the
// call. Implementations are free to use profile data, alias analysis,
// or anything else; the inliner only ever sees the returned Verdict.
type Model interface {
	GetInlineCost(site *ir.CallInst) Verdict
}

// Constants bundles the two magic numbers the deferral heuristic needs
// but never derives itself; they come from whatever cost model is
// plugged in.
type Constants struct {
	// CallPenalty is the fixed cost charged for the call instruction
	// itself, which disappears once it's inlined away.
	CallPenalty int
	// LastCallToStaticBonus is the discount the cost model grants a call
	// site when it is the only remaining caller of a local callee (since
	// inlining it would let the callee be deleted entirely).
	LastCallToStaticBonus int
}

// ProfileSummary exposes hot/cold call-site classification derived from
// profile data. A nil ProfileSummary means no profile is available and
// every call site is treated as neither hot nor cold.
type ProfileSummary interface {
	IsHotCallSite(site *ir.CallInst) bool
	IsColdCallSite(site *ir.CallInst) bool
}
