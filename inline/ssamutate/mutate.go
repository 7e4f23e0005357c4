// Package ssamutate is a reference implementation of the inline
// package's IRMutator interface: the opaque clone-and-substitute
// primitive the core inliner consumes but never implements itself. It
// copies a callee's instructions into the caller at the call site,
// rewires parameter references to argument values through a
// substitution table, and hoists cloned static allocas to the caller's
// entry block.
package ssamutate

import (
	"fmt"

	"github.com/arneph/inliner/inline"
	"github.com/arneph/inliner/ir"
)

// Mutator is the reference IRMutator: it clones callee's instructions
// into caller in place of the call, substituting parameters for
// arguments, hoisting cloned static allocas to caller's entry block, and
// reporting both back through the Info bag.
//
// This reference IR has no explicit control-flow or return
// instructions (see package ir); a callee is modeled as a flat sequence
// of blocks with no branches, so InlineFunction concatenates every
// block's instructions in order rather than splicing individual basic
// blocks along edges. A call's Result value is consequently left
// unconnected to whatever the callee "returns" — there is nothing in
// this IR to connect it to. Real IR mutators obviously do not have this
// limitation; it is a simplification of the reference IR this package
// targets, not a core-inliner concern.
type Mutator struct {
	fresh int
}

// New creates a Mutator.
func New() *Mutator { return &Mutator{} }

// InlineFunction implements inline.IRMutator.
func (m *Mutator) InlineFunction(site *ir.CallInst, info *inline.Info, aa inline.AliasResults, insertLifetime bool) bool {
	callee := site.Callee
	if callee == nil || callee.Declaration {
		return false
	}
	block := site.Parent()
	if block == nil {
		return false
	}
	idx := block.IndexOf(site)
	if idx < 0 {
		return false
	}
	caller := block.Func
	entry := caller.EntryBlock()
	if entry == nil {
		return false
	}

	subst := make(map[ir.Value]ir.Value, len(callee.Params)+8)
	for i, p := range callee.Params {
		if i < len(site.Args) {
			subst[p] = site.Args[i]
		}
	}

	var newAllocas []*ir.AllocaInst
	var newCalls []*ir.CallInst
	var spliced []ir.Instruction

	for _, b := range callee.Blocks {
		for _, inst := range b.Insts {
			switch orig := inst.(type) {
			case *ir.AllocaInst:
				clone := ir.NewAllocaInst(m.freshName(orig.Name), orig.AllocatedType, orig.Align)
				if orig.DynamicSize != nil {
					clone.DynamicSize = m.resolve(subst, orig.DynamicSize)
				}
				entry.AddInst(clone)
				subst[orig] = clone
				newAllocas = append(newAllocas, clone)

			case *ir.CallInst:
				args := make([]ir.Value, len(orig.Args))
				for i, a := range orig.Args {
					args[i] = m.resolve(subst, a)
				}
				clone := ir.NewCallInst(orig.Callee, args...)
				clone.Readonly = orig.Readonly
				if orig.Result != nil {
					result := &ir.Temp{Name: m.freshName("result")}
					clone.Result = result
					subst[orig.Result] = result
				}
				m.recordAllocaUses(clone, args)
				spliced = append(spliced, clone)
				newCalls = append(newCalls, clone)

			case *ir.DebugValueInst:
				clone := &ir.DebugValueInst{}
				if orig.Alloca != nil {
					if v, ok := subst[orig.Alloca]; ok {
						if a, ok := v.(*ir.AllocaInst); ok {
							a.AttachDebugValue(clone)
						}
					}
				}
				spliced = append(spliced, clone)

			case *ir.OtherInst:
				ops := make([]ir.Value, len(orig.Operands))
				for i, o := range orig.Operands {
					ops[i] = m.resolve(subst, o)
				}
				clone := &ir.OtherInst{Op: orig.Op, Operands: ops}
				if orig.Result != nil {
					result := &ir.Temp{Name: m.freshName("tmp")}
					clone.Result = result
					subst[orig.Result] = result
				}
				m.recordAllocaUses(clone, ops)
				spliced = append(spliced, clone)
			}
		}
	}

	m.markOperandUses(spliced)

	block.InsertInstsAt(idx, spliced...)
	block.RemoveInstAt(idx + len(spliced))

	info.StaticAllocas = append(info.StaticAllocas, newAllocas...)
	info.InlinedCalls = append(info.InlinedCalls, newCalls...)

	return true
}

func (m *Mutator) resolve(subst map[ir.Value]ir.Value, v ir.Value) ir.Value {
	if replacement, ok := subst[v]; ok {
		return replacement
	}
	return v
}

func (m *Mutator) freshName(base string) string {
	m.fresh++
	return fmt.Sprintf("%s.inl%d", base, m.fresh)
}

// recordAllocaUses registers inst as a use of any operand that is a
// (possibly just-substituted) AllocaInst, so a later alloca merge's
// ReplaceAllUsesWith correctly rewires every reader.
func (m *Mutator) recordAllocaUses(inst ir.Instruction, operands []ir.Value) {
	for _, op := range operands {
		if a, ok := op.(*ir.AllocaInst); ok {
			a.AddUse(inst)
		}
	}
}

// markOperandUses marks any cloned call's Result as used whenever a
// later spliced instruction references it as an operand, since the
// clones above don't go through the normal use-recording entry points.
func (m *Mutator) markOperandUses(insts []ir.Instruction) {
	producers := make(map[ir.Value]*ir.CallInst)
	for _, inst := range insts {
		if c, ok := inst.(*ir.CallInst); ok && c.Result != nil {
			producers[c.Result] = c
		}
	}
	for _, inst := range insts {
		var operands []ir.Value
		switch t := inst.(type) {
		case *ir.CallInst:
			operands = t.Args
		case *ir.OtherInst:
			operands = t.Operands
		}
		for _, op := range operands {
			if producer, ok := producers[op]; ok {
				producer.MarkResultUsed()
			}
		}
	}
}
