package callgraph

import (
	"strings"
	"testing"

	"github.com/arneph/inliner/ir"
)

func buildChain() (*ir.Module, *ir.Function, *ir.Function) {
	m := ir.NewModule()
	g := ir.NewFunction("g", ir.LinkageLocal)
	m.AddFunc(g)
	f := ir.NewFunction("f", ir.LinkageExternal)
	f.EntryBlock().AddInst(ir.NewCallInst(g))
	m.AddFunc(f)
	return m, f, g
}

func TestBuildAndLookup(t *testing.T) {
	m, f, g := buildChain()
	cg := Build(m, f)

	fn, gn := cg.Lookup(f), cg.Lookup(g)
	if fn == nil || gn == nil {
		t.Fatalf("expected nodes for both functions")
	}
	if len(fn.Edges()) != 1 || fn.Edges()[0].Callee != gn {
		t.Fatalf("expected f -> g edge, got %v", fn.Edges())
	}
	if gn.ReferenceCount() != 1 {
		t.Fatalf("expected g's reference count to be 1, got %d", gn.ReferenceCount())
	}
	if fn.ReferenceCount() != 1 {
		t.Fatalf("expected f reachable from the external node, got refcount %d", fn.ReferenceCount())
	}
}

func TestSCCSingularNoSelfEdge(t *testing.T) {
	m, f, g := buildChain()
	cg := Build(m, f)

	sccs := cg.SCCs()
	if len(sccs) != 2 {
		t.Fatalf("expected 2 SCCs for an acyclic chain, got %d", len(sccs))
	}
	for _, scc := range sccs {
		if !scc.IsSingular() {
			t.Fatalf("expected every SCC in an acyclic chain to be singular")
		}
	}
	_ = cg.SCCOf(cg.Lookup(g))
}

func TestSCCsEmitCalleesBeforeCallers(t *testing.T) {
	m, f, g := buildChain()
	cg := Build(m, f)

	sccs := cg.SCCs()
	if len(sccs) != 2 {
		t.Fatalf("expected 2 SCCs, got %d", len(sccs))
	}
	if sccs[0].Nodes()[0].Func != g || sccs[1].Nodes()[0].Func != f {
		t.Fatalf("expected g's component before f's, got [%s, %s]",
			sccs[0].Nodes()[0].Func.Name, sccs[1].Nodes()[0].Func.Name)
	}
}

func TestSCCCycleIsNotSingular(t *testing.T) {
	m := ir.NewModule()
	a := ir.NewFunction("a", ir.LinkageLocal)
	b := ir.NewFunction("b", ir.LinkageLocal)
	a.EntryBlock().AddInst(ir.NewCallInst(b))
	b.EntryBlock().AddInst(ir.NewCallInst(a))
	m.AddFunc(a)
	m.AddFunc(b)

	cg := Build(m, a)
	sccs := cg.SCCs()
	if len(sccs) != 1 {
		t.Fatalf("expected a and b to collapse into one SCC, got %d", len(sccs))
	}
	if sccs[0].IsSingular() {
		t.Fatalf("a two-node cycle must not be singular")
	}
	if len(sccs[0].Nodes()) != 2 {
		t.Fatalf("expected 2 nodes in the cycle SCC, got %d", len(sccs[0].Nodes()))
	}
}

func TestSelfRecursionIsNotSingular(t *testing.T) {
	m := ir.NewModule()
	a := ir.NewFunction("a", ir.LinkageLocal)
	a.EntryBlock().AddInst(ir.NewCallInst(a))
	m.AddFunc(a)

	cg := Build(m, a)
	sccs := cg.SCCs()
	if len(sccs) != 1 || sccs[0].IsSingular() {
		t.Fatalf("a function calling itself must form a non-singular SCC")
	}
}

func TestRemoveCallEdgeAndDetachNode(t *testing.T) {
	m, f, g := buildChain()
	cg := Build(m, f)

	fn, gn := cg.Lookup(f), cg.Lookup(g)
	site := f.AllCallInsts()[0]
	fn.RemoveCallEdge(site)
	if len(fn.Edges()) != 0 {
		t.Fatalf("expected edge removed")
	}
	if gn.ReferenceCount() != 0 {
		t.Fatalf("expected g's reference count decremented to 0, got %d", gn.ReferenceCount())
	}

	cg.DetachNode(gn)
	if cg.Lookup(g) != nil {
		t.Fatalf("expected g detached from the graph")
	}
}

func TestRecordEdgeForNewlyExposedCallSite(t *testing.T) {
	m, f, _ := buildChain()
	cg := Build(m, f)

	h := ir.NewFunction("h", ir.LinkageLocal)
	m.AddFunc(h)
	newSite := ir.NewCallInst(h)

	cg.RecordEdge(f, newSite)
	fn, hn := cg.Lookup(f), cg.Lookup(h)
	if hn == nil {
		t.Fatalf("expected RecordEdge to register a node for h")
	}
	found := false
	for _, e := range fn.Edges() {
		if e.Callee == hn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a new edge f -> h")
	}
}

func TestDOTRendersNodesAndEdges(t *testing.T) {
	m, f, _ := buildChain()
	cg := Build(m, f)

	dot, err := cg.DOT()
	if err != nil {
		t.Fatalf("DOT() error: %v", err)
	}
	if !strings.Contains(dot, "\"f\"") || !strings.Contains(dot, "\"g\"") {
		t.Fatalf("expected both function names quoted in DOT output, got:\n%s", dot)
	}
	if !strings.Contains(dot, "->") {
		t.Fatalf("expected an edge in DOT output, got:\n%s", dot)
	}
}
