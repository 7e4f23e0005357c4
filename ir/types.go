package ir

import "fmt"

// Type is the minimal type interface the inliner needs: enough to tell
// array types from everything else, and to size an alignment when the
// source IR didn't specify one explicitly.
type Type interface {
	String() string
	abiAlign() int
}

// ScalarType is any non-aggregate type (integers, pointers, floats, ...).
// The inliner never looks inside one; it only needs a name and an ABI
// alignment for the "align == 0 means ABI alignment" rule.
type ScalarType struct {
	Name  string
	Align int
}

func (t *ScalarType) String() string { return t.Name }
func (t *ScalarType) abiAlign() int  { return t.Align }

// ArrayType is the one aggregate type shape the alloca merger cares
// about: a fixed-length run of a single element type.
type ArrayType struct {
	ElemType Type
	Length   int
}

func (t *ArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", t.Length, t.ElemType)
}

func (t *ArrayType) abiAlign() int {
	return t.ElemType.abiAlign()
}

// ABIAlign returns t's natural alignment, used wherever a caller passes
// align == 0 to mean "use the ABI default".
func ABIAlign(t Type) int {
	return t.abiAlign()
}

// AsArrayType returns t as an *ArrayType and true, or nil/false if t is
// not an array type.
func AsArrayType(t Type) (*ArrayType, bool) {
	at, ok := t.(*ArrayType)
	return at, ok
}

// SameElementType reports whether two array types share an element type,
// the key used by the alloca merger's per-caller table.
func SameElementType(a, b *ArrayType) bool {
	return a.ElemType.String() == b.ElemType.String()
}
