package main

import (
	"fmt"

	"github.com/arneph/inliner/ir"
)

// A scenario builds a demo ir.Module together with the entry points
// that seed the call graph's external node. The package has no
// source-language front end, so the demo CLI ships a handful of small
// hand-built modules instead of reading from disk.
type scenario struct {
	name        string
	description string
	build       func() (*ir.Module, []*ir.Function)
}

var scenarios = []scenario{
	{
		name:        "trivial",
		description: "f calls g; g is always-inline and has no other callers",
		build:       buildTrivialScenario,
	},
	{
		name:        "cycle",
		description: "a and b call each other; the anti-cycle check must stop the fixed point",
		build:       buildCycleScenario,
	},
	{
		name:        "deadcall",
		description: "a readonly call whose result is unused gets deleted outright",
		build:       buildDeadCallScenario,
	},
	{
		name:        "allocamerge",
		description: "two sibling inlines each bring an [8 x i32] alloca into the same caller",
		build:       buildAllocaMergeScenario,
	},
	{
		name:        "comdat",
		description: "a dead linkonce_odr function survives while its COMDAT group has a live member",
		build:       buildComdatScenario,
	},
}

func scenarioByName(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}

func i32() *ir.ScalarType { return &ir.ScalarType{Name: "i32", Align: 4} }

// buildTrivialScenario: f() { g(); } g() { return 42; }.
func buildTrivialScenario() (*ir.Module, []*ir.Function) {
	m := ir.NewModule()

	g := ir.NewFunction("g", ir.LinkageLocal)
	g.Attrs = g.Attrs.With(ir.AttrAlwaysInline)
	g.EntryBlock().AddInst(&ir.OtherInst{Op: "ret", Operands: []ir.Value{&ir.ConstInt{Val: 42}}})
	m.AddFunc(g)

	f := ir.NewFunction("f", ir.LinkageExternal)
	f.EntryBlock().AddInst(ir.NewCallInst(g))
	m.AddFunc(f)

	return m, []*ir.Function{f}
}

// buildCycleScenario: a() { b(); } b() { a(); }.
func buildCycleScenario() (*ir.Module, []*ir.Function) {
	m := ir.NewModule()

	a := ir.NewFunction("a", ir.LinkageLocal)
	b := ir.NewFunction("b", ir.LinkageLocal)

	a.EntryBlock().AddInst(ir.NewCallInst(b))
	b.EntryBlock().AddInst(ir.NewCallInst(a))

	m.AddFunc(a)
	m.AddFunc(b)

	return m, []*ir.Function{a}
}

// buildDeadCallScenario: v = pure_readonly(x), with v never read.
func buildDeadCallScenario() (*ir.Module, []*ir.Function) {
	m := ir.NewModule()

	pure := ir.NewFunction("pure_readonly", ir.LinkageLocal)
	pure.Attrs = pure.Attrs.With(ir.AttrNoInline)
	pure.EntryBlock().AddInst(&ir.OtherInst{Op: "ret", Operands: []ir.Value{&ir.ConstInt{Val: 0}}})
	m.AddFunc(pure)

	caller := ir.NewFunction("caller", ir.LinkageExternal)
	call := ir.NewCallInst(pure, &ir.ConstInt{Val: 7})
	call.Readonly = true
	call.Result = &ir.Temp{Name: "v"}
	caller.EntryBlock().AddInst(call)
	m.AddFunc(caller)

	return m, []*ir.Function{caller}
}

// buildAllocaMergeScenario: two callees each bring a static [8 x i32]
// alloca into the same caller.
func buildAllocaMergeScenario() (*ir.Module, []*ir.Function) {
	m := ir.NewModule()
	arr := &ir.ArrayType{ElemType: i32(), Length: 8}

	mk := func(name string) *ir.Function {
		f := ir.NewFunction(name, ir.LinkageLocal)
		f.Attrs = f.Attrs.With(ir.AttrAlwaysInline)
		f.EntryBlock().AddInst(ir.NewAllocaInst("buf", arr, 0))
		return f
	}
	c1, c2 := mk("fill1"), mk("fill2")
	m.AddFunc(c1)
	m.AddFunc(c2)

	caller := ir.NewFunction("caller", ir.LinkageExternal)
	caller.EntryBlock().AddInst(ir.NewCallInst(c1))
	caller.EntryBlock().AddInst(ir.NewCallInst(c2))
	m.AddFunc(caller)

	return m, []*ir.Function{caller}
}

// buildComdatScenario: a dead linkonce_odr function in a COMDAT group
// with a live sibling. The sibling is NoInline so its call in
// keep_alive stays in place and it is still live at the sweep.
func buildComdatScenario() (*ir.Module, []*ir.Function) {
	m := ir.NewModule()
	group := m.Comdat("G")

	f := ir.NewFunction("F", ir.LinkageLinkOnceODR)
	f.EntryBlock().AddInst(&ir.OtherInst{Op: "ret"})
	group.AddMember(f)
	m.AddFunc(f)

	liveSibling := ir.NewFunction("F_variant", ir.LinkageLinkOnceODR)
	liveSibling.Attrs = liveSibling.Attrs.With(ir.AttrNoInline)
	liveSibling.EntryBlock().AddInst(&ir.OtherInst{Op: "ret"})
	group.AddMember(liveSibling)
	m.AddFunc(liveSibling)

	keepAlive := ir.NewFunction("keep_alive", ir.LinkageExternal)
	keepAlive.EntryBlock().AddInst(ir.NewCallInst(liveSibling))
	m.AddFunc(keepAlive)

	return m, []*ir.Function{keepAlive}
}

func listScenarios() string {
	out := ""
	for _, s := range scenarios {
		out += fmt.Sprintf("  %-12s %s\n", s.name, s.description)
	}
	return out
}
