// Package callgraph implements the mutable, cyclic call graph the
// inline drivers operate over: one node per function plus an external
// calling node, call-site-level edges, lazily recomputed Tarjan SCCs,
// and explicit node detachment for function deletion. Iterators over
// the graph are invalidated by node removal, so callers defer deletions
// to quiescent points rather than holding a view across a mutation.
package callgraph

import "github.com/arneph/inliner/ir"

// Edge is one call site's contribution to the graph: a specific
// instruction linking a caller Node to a callee Node.
type Edge struct {
	Caller *Node
	Callee *Node
	Site   *ir.CallInst
}

// Node wraps one ir.Function (or, for the external calling node, none)
// with its multiset of outgoing call edges.
type Node struct {
	Func  *ir.Function
	graph *CallGraph
	out   []*Edge

	// refCount is the number of outgoing edges, across the whole graph
	// and the external calling node, that currently target this node.
	refCount int
}

// ReferenceCount returns the node's current incoming reference count.
func (n *Node) ReferenceCount() int { return n.refCount }

// IsExternal reports whether this is the call graph's external calling
// node, modeling calls reachable from outside the module.
func (n *Node) IsExternal() bool { return n.Func == nil }

// Edges returns the node's outgoing call edges.
func (n *Node) Edges() []*Edge { return n.out }

// RemoveCallEdge erases the single outgoing edge for site, e.g. once
// TryInline has consumed it.
func (n *Node) RemoveCallEdge(site *ir.CallInst) {
	for i, e := range n.out {
		if e.Site == site {
			callee := e.Callee
			n.out = append(n.out[:i], n.out[i+1:]...)
			if callee != nil {
				callee.refCount--
			}
			n.graph.sccsOk = false
			return
		}
	}
}

// RemoveAllOutgoingEdges detaches every call edge leaving n, used when
// n's function is about to be deleted outright.
func (n *Node) RemoveAllOutgoingEdges() {
	for _, e := range n.out {
		if e.Callee != nil {
			e.Callee.refCount--
		}
	}
	n.out = nil
	n.graph.sccsOk = false
}

// addEdge appends a new outgoing edge for site, bumping callee's
// reference count.
func (n *Node) addEdge(callee *Node, site *ir.CallInst) *Edge {
	e := &Edge{Caller: n, Callee: callee, Site: site}
	n.out = append(n.out, e)
	if callee != nil {
		callee.refCount++
	}
	n.graph.sccsOk = false
	return e
}
