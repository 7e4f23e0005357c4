package callgraph

import "github.com/arneph/inliner/ir"

// SCC is a strongly connected component of the call graph: a set of
// nodes that can reach each other via direct calls.
type SCC struct {
	id    int
	nodes []*Node
}

// Nodes returns the component's member nodes.
func (s *SCC) Nodes() []*Node { return s.nodes }

// IsSingular reports whether the component has exactly one node and no
// self-edge.
func (s *SCC) IsSingular() bool {
	if len(s.nodes) != 1 {
		return false
	}
	n := s.nodes[0]
	for _, e := range n.out {
		if e.Callee == n {
			return false
		}
	}
	return true
}

// SCCs recomputes (if stale) and returns every strongly connected
// component of the call graph, via Tarjan's algorithm. Components come
// out in reverse topological order of the condensation — every callee
// component before its callers — which is the order an inlining pass
// wants to visit them in.
func (cg *CallGraph) SCCs() []*SCC {
	cg.recomputeSCCs()
	out := make([]*SCC, len(cg.sccs))
	copy(out, cg.sccs)
	return out
}

// SCCOf returns the strongly connected component containing n, or nil
// if n isn't in the graph.
func (cg *CallGraph) SCCOf(n *Node) *SCC {
	cg.recomputeSCCs()
	if n == nil || n.Func == nil {
		return nil
	}
	return cg.funcToSCC[n.Func]
}

func (cg *CallGraph) recomputeSCCs() {
	if cg.sccsOk {
		return
	}
	cg.sccsOk = true
	cg.sccs = nil
	cg.funcToSCC = make(map[*ir.Function]*SCC)

	index := 0
	indices := make(map[*Node]int)
	lowLinks := make(map[*Node]int)
	var stack []*Node
	onStack := make(map[*Node]bool)

	var strongConnect func(v *Node)
	strongConnect = func(v *Node) {
		indices[v] = index
		lowLinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range v.out {
			w := e.Callee
			if w == nil {
				continue
			}
			if _, ok := indices[w]; !ok {
				strongConnect(w)
				if lowLinks[v] > lowLinks[w] {
					lowLinks[v] = lowLinks[w]
				}
			} else if onStack[w] {
				// w.index, not w.lowlink, per the original Tarjan paper.
				if lowLinks[v] > indices[w] {
					lowLinks[v] = indices[w]
				}
			}
		}

		if lowLinks[v] == indices[v] {
			scc := &SCC{id: len(cg.sccs)}
			var w *Node
			for v != w {
				i := len(stack) - 1
				w = stack[i]
				stack = stack[:i]
				onStack[w] = false

				scc.nodes = append(scc.nodes, w)
				cg.funcToSCC[w.Func] = scc
			}
			cg.sccs = append(cg.sccs, scc)
		}
	}

	// Start DFS roots in module definition order so repeated runs over
	// the same module emit components in the same order.
	for _, f := range cg.module.Funcs() {
		if n, ok := cg.nodes[f]; ok {
			if _, visited := indices[n]; !visited {
				strongConnect(n)
			}
		}
	}
	for _, n := range cg.nodes {
		if _, ok := indices[n]; !ok {
			strongConnect(n)
		}
	}
}
