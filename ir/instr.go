package ir

import (
	"fmt"
	"strings"
)

// Instruction is anything that can live in a BasicBlock.
type Instruction interface {
	fmt.Stringer
	Parent() *BasicBlock
	setParent(*BasicBlock)
}

type instBase struct {
	block *BasicBlock
}

func (b *instBase) Parent() *BasicBlock      { return b.block }
func (b *instBase) setParent(bb *BasicBlock) { b.block = bb }

// CallInst is a single call instruction. Callee is nil for an indirect
// call (the statically known callee isn't available, e.g. a call
// through a function pointer).
type CallInst struct {
	instBase

	Callee *Function
	Args   []Value

	// Result is the value the call produces, or nil for a void call.
	Result Value
	// resultUsed tracks whether anything reads Result; combined with
	// Readonly this drives the trivially-dead-call check in the drivers.
	resultUsed bool

	// Readonly marks a call whose callee has no observable side effects
	// (the source IR's notion of a pure/readonly function).
	Readonly bool
}

// NewCallInst creates a call to callee (nil for an indirect/unresolved
// callee) with the given arguments.
func NewCallInst(callee *Function, args ...Value) *CallInst {
	return &CallInst{Callee: callee, Args: args}
}

// MarkResultUsed records that some other instruction consumes Result.
func (c *CallInst) MarkResultUsed() { c.resultUsed = true }

// ResultUnused reports whether the call's result (if any) has no readers.
func (c *CallInst) ResultUnused() bool {
	return c.Result == nil || !c.resultUsed
}

// IsTriviallyDead reports whether this call can be unconditionally
// removed without changing program semantics: it must be read-only and
// its result (if any) must be unused.
func (c *CallInst) IsTriviallyDead() bool {
	return c.Readonly && c.ResultUnused()
}

// IsIndirect reports whether the statically known callee is unavailable.
func (c *CallInst) IsIndirect() bool { return c.Callee == nil }

func (c *CallInst) String() string {
	name := "<indirect>"
	if c.Callee != nil {
		name = c.Callee.Name
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	prefix := ""
	if c.Result != nil {
		prefix = c.Result.String() + " = "
	}
	return fmt.Sprintf("%scall %s(%s)", prefix, name, strings.Join(args, ", "))
}

// AllocaInst is a stack allocation emitted in a function's entry block.
type AllocaInst struct {
	instBase

	Name          string
	AllocatedType Type
	// DynamicSize is non-nil for a dynamic-size array allocation, whose
	// element count is only known at runtime; the alloca merger refuses
	// to touch these.
	DynamicSize Value
	// Align is the requested alignment, or 0 to mean "ABI alignment of
	// AllocatedType".
	Align int

	uses        []Instruction
	debugValues []*DebugValueInst
}

// NewAllocaInst creates a new static (DynamicSize == nil) stack slot.
func NewAllocaInst(name string, t Type, align int) *AllocaInst {
	return &AllocaInst{Name: name, AllocatedType: t, Align: align}
}

// IsDynamic reports whether the allocation's size is only known at
// runtime.
func (a *AllocaInst) IsDynamic() bool { return a.DynamicSize != nil }

// Uses returns every instruction that currently reads this slot.
func (a *AllocaInst) Uses() []Instruction { return a.uses }

// AddUse registers inst as a reader of this slot.
func (a *AllocaInst) AddUse(inst Instruction) { a.uses = append(a.uses, inst) }

// DebugValues returns debug-info intrinsics attached to this slot.
func (a *AllocaInst) DebugValues() []*DebugValueInst { return a.debugValues }

// AttachDebugValue records that d describes this slot.
func (a *AllocaInst) AttachDebugValue(d *DebugValueInst) {
	a.debugValues = append(a.debugValues, d)
	d.Alloca = a
}

// ReplaceAllUsesWith rewires every use (and every attached debug value)
// of a onto other, then clears a's own use list. It does not erase a
// from its block; the caller does that once rewiring is complete.
func (a *AllocaInst) ReplaceAllUsesWith(other *AllocaInst) {
	for _, u := range a.uses {
		rewireAllocaOperand(u, a, other)
		other.AddUse(u)
	}
	a.uses = nil
	for _, d := range a.debugValues {
		d.Alloca = other
		other.debugValues = append(other.debugValues, d)
	}
	a.debugValues = nil
}

func (a *AllocaInst) isValue() {}

func (a *AllocaInst) String() string {
	size := ""
	if a.DynamicSize != nil {
		size = ", " + a.DynamicSize.String()
	}
	return fmt.Sprintf("%s = alloca %s, align %d%s", a.Name, a.AllocatedType, a.Align, size)
}

// OtherInst stands in for every instruction kind the inliner doesn't
// need to reason about individually (loads, stores, arithmetic, ...). It
// still participates in use tracking so alloca merging can rewire it.
type OtherInst struct {
	instBase

	Op       string
	Operands []Value
	Result   Value
}

func (o *OtherInst) String() string {
	ops := make([]string, len(o.Operands))
	for i, op := range o.Operands {
		ops[i] = op.String()
	}
	prefix := ""
	if o.Result != nil {
		prefix = o.Result.String() + " = "
	}
	return fmt.Sprintf("%s%s %s", prefix, o.Op, strings.Join(ops, ", "))
}

// DebugValueInst is a debug-info intrinsic describing the contents of an
// AllocaInst (the source IR's dbg.value/dbg.declare equivalent).
type DebugValueInst struct {
	instBase

	Alloca *AllocaInst
}

func (d *DebugValueInst) String() string {
	name := "<nil>"
	if d.Alloca != nil {
		name = d.Alloca.Name
	}
	return fmt.Sprintf("dbg.value %s", name)
}

func rewireAllocaOperand(inst Instruction, old, new *AllocaInst) {
	switch inst := inst.(type) {
	case *OtherInst:
		for i, op := range inst.Operands {
			if op == Value(old) {
				inst.Operands[i] = new
			}
		}
	case *CallInst:
		for i, a := range inst.Args {
			if a == Value(old) {
				inst.Args[i] = new
			}
		}
	case *DebugValueInst:
		inst.Alloca = new
	}
}
