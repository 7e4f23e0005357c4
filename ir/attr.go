package ir

// Attribute is a bit in a Function's attribute set.
type Attribute uint32

const (
	// AttrAlwaysInline forces GetInlineCost to report Always for every
	// call site targeting this function.
	AttrAlwaysInline Attribute = 1 << iota
	// AttrNoInline forbids inlining this function as a callee.
	AttrNoInline
	// AttrOptimizeNone excludes the function from the modern driver
	// entirely.
	AttrOptimizeNone
)

// AttributeSet is a growable, mergeable set of Attributes.
type AttributeSet uint32

// Has reports whether a is present in the set.
func (s AttributeSet) Has(a Attribute) bool {
	return s&AttributeSet(a) != 0
}

// With returns a copy of the set with a added.
func (s AttributeSet) With(a Attribute) AttributeSet {
	return s | AttributeSet(a)
}

// MergeFrom merges callee's attributes into the set according to the
// rules of the inline action's attribute-merging step: AlwaysInline,
// OptimizeNone and NoInline never propagate from callee to caller (a
// caller that absorbs an always-inline callee's body doesn't itself
// become always-inline). The caller keeps all of its own attributes and
// gains any other attribute the callee has.
func (s AttributeSet) MergeFrom(callee AttributeSet) AttributeSet {
	const nonPropagating = AttributeSet(AttrAlwaysInline) | AttributeSet(AttrOptimizeNone) | AttributeSet(AttrNoInline)
	return s | (callee &^ nonPropagating)
}
