package ir

import "strings"

// Function is an IR entity with a name, a linkage class, an optional
// COMDAT group, an attribute set, and (unless it's a declaration) a
// body made of basic blocks.
type Function struct {
	Name    string
	Linkage Linkage
	Attrs   AttributeSet
	Params  []*Param

	// Declaration, when true, means the function has no body available
	// in this module (an external prototype); it can be a Callee but
	// never a Caller.
	Declaration bool

	Blocks []*BasicBlock

	comdat *Comdat

	// addressTaken records a non-call reference to the function (its
	// address escaping as a value); see HasNonCallReference.
	addressTaken bool
}

// NewFunction creates a function with one empty entry block.
func NewFunction(name string, linkage Linkage) *Function {
	f := &Function{Name: name, Linkage: linkage}
	f.Blocks = []*BasicBlock{NewBasicBlock("entry")}
	f.Blocks[0].Func = f
	return f
}

// NewDeclaration creates a bodyless function prototype.
func NewDeclaration(name string, linkage Linkage) *Function {
	return &Function{Name: name, Linkage: linkage, Declaration: true}
}

// EntryBlock returns the function's entry block, where static allocas
// live.
func (f *Function) EntryBlock() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Comdat returns the COMDAT group this function belongs to, or nil.
func (f *Function) Comdat() *Comdat { return f.comdat }

// SetComdat enrolls f in group g (or clears its group if g is nil).
func (f *Function) SetComdat(g *Comdat) {
	if f.comdat != nil {
		f.comdat.RemoveMember(f)
	}
	f.comdat = nil
	if g != nil {
		g.AddMember(f)
	}
}

// AllCallInsts returns every call instruction in the function's body, in
// block then instruction order.
func (f *Function) AllCallInsts() []*CallInst {
	var out []*CallInst
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			if c, ok := inst.(*CallInst); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// RemoveCallInst erases call from whichever block holds it.
func (f *Function) RemoveCallInst(call *CallInst) {
	b := call.Parent()
	if b == nil {
		return
	}
	if i := b.IndexOf(call); i >= 0 {
		b.RemoveInstAt(i)
	}
}

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString(f.Linkage.String() + " func " + f.Name + "(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
	}
	sb.WriteString(")")
	if f.Declaration {
		sb.WriteString(" ; declaration\n")
		return sb.String()
	}
	sb.WriteString(" {\n")
	for _, b := range f.Blocks {
		sb.WriteString(b.String())
	}
	sb.WriteString("}")
	return sb.String()
}
