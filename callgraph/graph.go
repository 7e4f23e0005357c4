package callgraph

import "github.com/arneph/inliner/ir"

// CallGraph is a mapping from Function to Node plus an external calling
// node modeling calls from outside the module.
type CallGraph struct {
	module *ir.Module
	nodes  map[*ir.Function]*Node

	// external models calls reachable from outside the module: exported
	// functions and anything whose address has escaped get an edge from
	// here, so they're never mistaken for dead by the sweeper.
	external *Node

	sccsOk    bool
	sccs      []*SCC
	funcToSCC map[*ir.Function]*SCC
}

// Build constructs a call graph by walking every call instruction with a
// statically known callee in module. Entry points, external-linkage
// functions and address-taken functions are additionally wired from the
// external node, with at most one external edge per function.
func Build(module *ir.Module, entryPoints ...*ir.Function) *CallGraph {
	cg := &CallGraph{module: module, nodes: make(map[*ir.Function]*Node)}
	cg.external = &Node{graph: cg}

	for _, f := range module.Funcs() {
		cg.getOrAddNode(f)
	}
	for _, f := range module.Funcs() {
		caller := cg.nodes[f]
		for _, call := range f.AllCallInsts() {
			if call.Callee == nil {
				continue
			}
			callee := cg.getOrAddNode(call.Callee)
			caller.addEdge(callee, call)
		}
	}
	wired := make(map[*ir.Function]bool)
	for _, f := range entryPoints {
		if wired[f] {
			continue
		}
		wired[f] = true
		callee := cg.getOrAddNode(f)
		cg.external.addEdge(callee, nil)
	}
	for _, f := range module.Funcs() {
		if wired[f] {
			continue
		}
		if f.Linkage == ir.LinkageExternal || f.HasNonCallReference() {
			wired[f] = true
			callee := cg.nodes[f]
			cg.external.addEdge(callee, nil)
		}
	}
	return cg
}

func (cg *CallGraph) getOrAddNode(f *ir.Function) *Node {
	if n, ok := cg.nodes[f]; ok {
		return n
	}
	n := &Node{Func: f, graph: cg}
	cg.nodes[f] = n
	cg.sccsOk = false
	return n
}

// Lookup returns the Node for f, or nil if f isn't in the graph.
func (cg *CallGraph) Lookup(f *ir.Function) *Node {
	return cg.nodes[f]
}

// External returns the call graph's external calling node.
func (cg *CallGraph) External() *Node { return cg.external }

// Nodes returns every defined-function node currently in the graph.
func (cg *CallGraph) Nodes() []*Node {
	out := make([]*Node, 0, len(cg.nodes))
	for _, n := range cg.nodes {
		out = append(out, n)
	}
	return out
}

// AddNodeForNewFunction registers a Node for a function that didn't
// exist in the module when the graph was first built (e.g. one created
// mid-inlining by an IR mutator). It starts with no edges.
func (cg *CallGraph) AddNodeForNewFunction(f *ir.Function) *Node {
	return cg.getOrAddNode(f)
}

// RecordEdge wires a newly exposed call site into the graph so it stays
// consistent with the IR after an inline. The site's callee may be nil
// for an indirect call, in which case no edge is added but the graph is
// still marked stale so a later resolved call is picked up by SCC
// recomputation.
func (cg *CallGraph) RecordEdge(caller *ir.Function, site *ir.CallInst) {
	callerNode := cg.getOrAddNode(caller)
	if site.Callee == nil {
		cg.sccsOk = false
		return
	}
	calleeNode := cg.getOrAddNode(site.Callee)
	callerNode.addEdge(calleeNode, site)
}

// DetachNode removes n from the graph entirely: its outgoing edges are
// dropped (decrementing callee ref counts) and it is no longer returned
// by Lookup/Nodes/SCC views. The caller is responsible for then
// removing the underlying ir.Function from its ir.Module. It panics if n
// is not currently in the graph (e.g. it was already detached).
func (cg *CallGraph) DetachNode(n *Node) {
	if n.Func == nil || cg.nodes[n.Func] != n {
		panic("callgraph: detaching a node that is not in the graph")
	}
	n.RemoveAllOutgoingEdges()
	delete(cg.nodes, n.Func)
	cg.sccsOk = false
}
