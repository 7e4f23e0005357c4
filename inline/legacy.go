package inline

import (
	"github.com/arneph/inliner/callgraph"
	"github.com/arneph/inliner/ir"
)

// callSiteEntry pairs a call site with the inline-history index that
// was current when it was discovered.
type callSiteEntry struct {
	site      *ir.CallInst
	histIndex int
}

// Legacy is the worklist SCC driver: it snapshots an SCC's call sites
// up front, reorders intra-SCC calls to the tail, and loops to a fixed
// point, splicing newly exposed call sites into the worklist as it
// goes.
type Legacy struct {
	Module        *ir.Module
	Graph         *callgraph.CallGraph
	CostGate      *CostGate
	Action        *Action
	History       *History
	Stats         *Stats
	NoAllocaMerge bool

	// TLI, if non-nil, widens the trivially-dead-call check to calls
	// targeting known read-only library routines.
	TLI TargetLibraryInfo
}

// RunSCC processes one SCC to a fixed point.
func (l *Legacy) RunSCC(scc *callgraph.SCC) {
	sccFuncs := make(map[*ir.Function]bool)
	var orderedFuncs []*ir.Function
	for _, n := range scc.Nodes() {
		// A node detached by an earlier SCC's cleanup can still appear
		// in a view taken before that cleanup ran.
		if n.Func == nil || n.Func.Declaration || l.Graph.Lookup(n.Func) != n {
			continue
		}
		sccFuncs[n.Func] = true
		orderedFuncs = append(orderedFuncs, n.Func)
	}

	var callSites []callSiteEntry
	for _, f := range orderedFuncs {
		for _, call := range f.AllCallInsts() {
			if call.Callee != nil && call.Callee.Declaration {
				l.Action.Sink.Emit(Remark{Callee: call.Callee.Name, Caller: f.Name, Reason: ReasonNoDefinition})
				continue
			}
			callSites = append(callSites, callSiteEntry{site: call, histIndex: RootIndex})
		}
	}
	callSites = partitionIntraSCCLast(callSites, sccFuncs)

	singular := scc.IsSingular()

	for {
		changed := false

		for i := 0; i < len(callSites); i++ {
			entry := callSites[i]
			site := entry.site
			caller := callerOf(site)

			if l.isTriviallyDead(site) {
				if n := l.Graph.Lookup(caller); n != nil {
					n.RemoveCallEdge(site)
				}
				caller.RemoveCallInst(site)
				l.Stats.NumCallsDeleted++
				callSites = l.cleanupAfter(callSites, i, singular, site.Callee, sccFuncs)
				i--
				changed = true
				continue
			}

			if site.Callee == nil || site.Callee.Declaration {
				continue
			}

			if entry.histIndex != RootIndex && l.History.IncludesFunction(site.Callee, entry.histIndex) {
				continue
			}

			if !l.CostGate.ShouldInline(site) {
				continue
			}

			idx, newCalls, ok := l.Action.TryInline(site, entry.histIndex, !l.NoAllocaMerge)
			if !ok {
				continue
			}

			callee := site.Callee
			if n := l.Graph.Lookup(caller); n != nil {
				n.RemoveCallEdge(site)
			}
			for _, nc := range newCalls {
				l.Graph.RecordEdge(caller, nc)
			}

			if len(newCalls) > 0 {
				for _, nc := range newCalls {
					callSites = append(callSites, callSiteEntry{site: nc, histIndex: idx})
				}
			}

			callSites = l.cleanupAfter(callSites, i, singular, callee, sccFuncs)
			i--
			changed = true
		}

		if !changed {
			break
		}
	}
}

// isTriviallyDead reports whether site can be removed outright: either
// the call itself is marked read-only with an unused result, or TLI
// knows the callee as a pure library routine and the result is unused.
func (l *Legacy) isTriviallyDead(site *ir.CallInst) bool {
	if site.IsTriviallyDead() {
		return true
	}
	if l.TLI != nil && site.Callee != nil && l.TLI.IsReadonlyRoutine(site.Callee.Name) {
		return site.ResultUnused()
	}
	return false
}

// cleanupAfter implements the per-iteration cleanup step: possibly
// delete the now-unused callee, then remove the just-processed entry
// from callSites. For a singular SCC the entry is swap-popped; for a
// multi-node SCC positional erase keeps intra-SCC calls behind the
// partition boundary.
func (l *Legacy) cleanupAfter(callSites []callSiteEntry, i int, singular bool, callee *ir.Function, sccFuncs map[*ir.Function]bool) []callSiteEntry {
	if callee != nil && callee.Linkage == ir.LinkageLocal && !sccFuncs[callee] {
		if len(l.Module.UsersOf(callee)) == 0 {
			if n := l.Graph.Lookup(callee); n != nil && n.ReferenceCount() == 0 {
				n.RemoveAllOutgoingEdges()
				l.Graph.DetachNode(n)
				l.Module.RemoveFunc(callee)
				l.Stats.NumDeleted++
			}
		}
	}

	if singular {
		last := len(callSites) - 1
		callSites[i] = callSites[last]
		return callSites[:last]
	}
	return append(callSites[:i], callSites[i+1:]...)
}

// partitionIntraSCCLast reorders callSites so that every call whose
// callee is in sccFuncs appears after every call that isn't. Intra-SCC
// calls are the cycle-risk cases; handling acyclic opportunities first
// lets them land and reveal simplifications.
func partitionIntraSCCLast(callSites []callSiteEntry, sccFuncs map[*ir.Function]bool) []callSiteEntry {
	out := make([]callSiteEntry, 0, len(callSites))
	var intra []callSiteEntry
	for _, e := range callSites {
		if e.site.Callee != nil && sccFuncs[e.site.Callee] {
			intra = append(intra, e)
		} else {
			out = append(out, e)
		}
	}
	return append(out, intra...)
}
