package inline

import (
	"github.com/arneph/inliner/callgraph"
	"github.com/arneph/inliner/ir"
)

// Modern is the lazy-call-graph SCC driver. Unlike Legacy, it never
// merges allocas, skips AttrOptimizeNone functions outright, and defers
// function deletion to the end of the whole SCC rather than the end of
// each callee's cleanup.
type Modern struct {
	Module   *ir.Module
	Graph    *callgraph.CallGraph
	CostGate *CostGate
	Action   *Action
	History  *History
	Stats    *Stats

	// UpdateGraphViews is the external routine that re-derives the
	// lazy call graph's SCC/RefSCC views after a transformation. It may
	// be nil, in which case this driver's own lazily-recomputed SCCs
	// (already invalidated by every edge mutation) serve the same
	// purpose.
	UpdateGraphViews func()
}

// RunSCC processes one SCC top-down, LIFO over its nodes.
func (m *Modern) RunSCC(scc *callgraph.SCC) {
	nodes := scc.Nodes()
	worklist := make([]*callgraph.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Func == nil || n.Func.Declaration || m.Graph.Lookup(n.Func) != n {
			continue
		}
		if n.Func.Attrs.Has(ir.AttrOptimizeNone) {
			continue
		}
		worklist = append(worklist, n)
	}

	var pendingDeletion []*ir.Function
	pendingDead := make(map[*ir.Function]bool)

	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		f := n.Func
		inlinedAny := false

		calls := f.AllCallInsts()
		stack := make([]callSiteEntry, 0, len(calls))
		for i := len(calls) - 1; i >= 0; i-- {
			stack = append(stack, callSiteEntry{site: calls[i], histIndex: RootIndex})
		}

		for len(stack) > 0 {
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			site := entry.site

			if site.Callee == nil || site.Callee.Declaration {
				continue
			}
			if entry.histIndex != RootIndex && m.History.IncludesFunction(site.Callee, entry.histIndex) {
				continue
			}
			if !m.CostGate.ShouldInline(site) {
				continue
			}

			idx, newCalls, ok := m.Action.TryInline(site, entry.histIndex, false)
			if !ok {
				continue
			}
			inlinedAny = true
			callee := site.Callee

			n.RemoveCallEdge(site)
			for _, nc := range newCalls {
				m.Graph.RecordEdge(f, nc)
				stack = append(stack, callSiteEntry{site: nc, histIndex: idx})
			}

			if callee.Linkage == ir.LinkageLocal && !pendingDead[callee] && len(m.Module.UsersOf(callee)) == 0 {
				if cn := m.Graph.Lookup(callee); cn != nil {
					cn.RemoveAllOutgoingEdges()
				}
				pendingDead[callee] = true
				pendingDeletion = append(pendingDeletion, callee)
			}
		}

		if inlinedAny && m.UpdateGraphViews != nil {
			m.UpdateGraphViews()
		}
	}

	for _, f := range pendingDeletion {
		if n := m.Graph.Lookup(f); n != nil {
			m.Graph.DetachNode(n)
		}
		m.Module.RemoveFunc(f)
		m.Stats.NumDeleted++
	}
}
