package inline

import "github.com/arneph/inliner/ir"

// Action performs a single accepted inline, given that ShouldInline
// already returned true for the site. It owns the
// info-bag/attribute-merge/alloca-merge bookkeeping that has to happen
// around every call to the external IRMutator.
type Action struct {
	Mutator         IRMutator
	AA              AAGetter
	AssumptionCache AssumptionCacheGetter
	InsertLifetime  bool
	Sink            Sink
	Stats           *Stats
	History         *History
	AllocaTables    map[*ir.Function]*AllocaTable

	// ImportStats, if non-nil, records every successful inline.
	ImportStats *ImportStats
}

// AllocaTableFor returns (creating if necessary) the alloca-merge table
// for caller. Tables are never reset; they live as long as the Action.
func (a *Action) AllocaTableFor(caller *ir.Function) *AllocaTable {
	if a.AllocaTables == nil {
		a.AllocaTables = make(map[*ir.Function]*AllocaTable)
	}
	t, ok := a.AllocaTables[caller]
	if !ok {
		t = NewAllocaTable()
		a.AllocaTables[caller] = t
	}
	return t
}

// TryInline performs the inline of site, whose history index is
// parentIndex in a.History (the inline that produced site, or
// RootIndex for a call site original to the module). It returns the
// history index assigned to callee at this site, the call sites the
// inline exposed in caller, and whether the inline actually happened.
//
// Attribute propagation, alloca merging and info-bag handling all
// happen here, around the single opaque call into the IRMutator. A
// false return means the IR-mutation primitive itself refused (not a
// core policy decision) and is reported as NotInlined/NoDefinition
// rather than TooCostly/NeverInline, which the cost gate already owns.
func (a *Action) TryInline(site *ir.CallInst, parentIndex int, mergeAllocaTable bool) (int, []*ir.CallInst, bool) {
	callee := site.Callee
	caller := callerOf(site)

	if callee == nil {
		a.Sink.Emit(Remark{Callee: "<indirect>", Caller: caller.Name, Reason: ReasonNoDefinition})
		return RootIndex, nil, false
	}
	if callee.Declaration {
		a.Sink.Emit(Remark{Callee: callee.Name, Caller: caller.Name, Reason: ReasonNoDefinition})
		return RootIndex, nil, false
	}

	var info Info
	if a.AssumptionCache != nil {
		info.Cache = a.AssumptionCache(caller)
	}
	var aa AliasResults
	if a.AA != nil {
		aa = a.AA(callee)
	}

	ok := a.Mutator.InlineFunction(site, &info, aa, a.InsertLifetime)
	if !ok {
		a.Sink.Emit(Remark{Callee: callee.Name, Caller: caller.Name, Reason: ReasonNotInlined})
		return RootIndex, nil, false
	}

	caller.Attrs = caller.Attrs.MergeFrom(callee.Attrs)

	if a.ImportStats != nil {
		a.ImportStats.Record(callee.Name, caller.Name)
	}

	a.Stats.NumInlined++

	if mergeAllocaTable {
		table := a.AllocaTableFor(caller)
		mergeAllocas(info.StaticAllocas, table, parentIndex, a.Stats)
	}

	idx := a.History.Add(callee, parentIndex)

	a.Sink.Emit(Remark{Callee: callee.Name, Caller: caller.Name, Reason: ReasonInlined})

	return idx, info.InlinedCalls, true
}
