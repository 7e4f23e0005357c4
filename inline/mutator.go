package inline

import "github.com/arneph/inliner/ir"

// Info is the output parameter an inline action fills in: every static
// allocation the inline just produced in the caller, and every new call
// site it exposed there. It is reset between calls, never accumulated
// across them.
type Info struct {
	StaticAllocas []*ir.AllocaInst
	InlinedCalls  []*ir.CallInst

	// Cache is the caller's assumption cache, set by the inline action
	// before the mutation so an IRMutator that maintains one can update
	// it as it splices.
	Cache AssumptionCache
}

// Reset clears the bag for reuse on the next call site.
func (i *Info) Reset() {
	i.StaticAllocas = i.StaticAllocas[:0]
	i.InlinedCalls = i.InlinedCalls[:0]
	i.Cache = nil
}

// AliasResults is an opaque handle to whatever alias-analysis results an
// IRMutator needs for a given function; the core never looks inside one.
type AliasResults interface{}

// AAGetter constructs or returns alias-analysis results for f.
type AAGetter func(f *ir.Function) AliasResults

// AssumptionCache is an opaque per-function cache handle whose lifetime
// exceeds a driver invocation.
type AssumptionCache interface{}

// AssumptionCacheGetter returns f's assumption cache.
type AssumptionCacheGetter func(f *ir.Function) AssumptionCache

// TargetLibraryInfo classifies known library routines. The worklist
// driver consults it when deciding whether a call with an unused result
// is trivially dead: a callee the IR doesn't mark read-only may still
// be a known pure library routine.
type TargetLibraryInfo interface {
	IsReadonlyRoutine(name string) bool
}

// IRMutator is the opaque IR mutation primitive the core never
// implements itself: it substitutes callee's body at site, reporting
// new static allocations and newly exposed call sites through info. It
// reports failure (rather than panicking) for anything that makes the
// substitution unsound for this particular call site, such as a
// variadic callee or an indirect branch target; a refusal is a remark,
// not an error.
type IRMutator interface {
	InlineFunction(site *ir.CallInst, info *Info, aa AliasResults, insertLifetime bool) bool
}
