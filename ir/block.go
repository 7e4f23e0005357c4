package ir

import "strings"

// BasicBlock is a straight-line sequence of instructions.
type BasicBlock struct {
	Name   string
	Func   *Function
	Insts  []Instruction
}

// NewBasicBlock creates a new, empty block belonging to no function yet.
func NewBasicBlock(name string) *BasicBlock {
	return &BasicBlock{Name: name}
}

// AddInst appends inst to the block.
func (b *BasicBlock) AddInst(inst Instruction) {
	inst.setParent(b)
	b.Insts = append(b.Insts, inst)
}

// InsertInstsAt splices insts into the block starting at index i,
// shifting everything previously at or after i to come after them. Used
// by the IR mutator to splice a cloned callee body into a split caller
// block.
func (b *BasicBlock) InsertInstsAt(i int, insts ...Instruction) {
	for _, inst := range insts {
		inst.setParent(b)
	}
	tail := append([]Instruction{}, b.Insts[i:]...)
	b.Insts = append(b.Insts[:i], insts...)
	b.Insts = append(b.Insts, tail...)
}

// RemoveInstAt erases the instruction at index i.
func (b *BasicBlock) RemoveInstAt(i int) {
	b.Insts = append(b.Insts[:i], b.Insts[i+1:]...)
}

// IndexOf returns the position of inst in the block, or -1.
func (b *BasicBlock) IndexOf(inst Instruction) int {
	for i, candidate := range b.Insts {
		if candidate == inst {
			return i
		}
	}
	return -1
}

// Allocas returns every AllocaInst currently in the block, in order.
func (b *BasicBlock) Allocas() []*AllocaInst {
	var out []*AllocaInst
	for _, inst := range b.Insts {
		if a, ok := inst.(*AllocaInst); ok {
			out = append(out, a)
		}
	}
	return out
}

func (b *BasicBlock) String() string {
	var sb strings.Builder
	sb.WriteString(b.Name + ":\n")
	for _, inst := range b.Insts {
		sb.WriteString("  " + inst.String() + "\n")
	}
	return sb.String()
}
