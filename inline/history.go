package inline

import "github.com/arneph/inliner/ir"

// historyEntry is one link in an inline-history chain: the callee that
// got expanded, and the index of the entry that was current when it
// did, or -1 at the root.
type historyEntry struct {
	callee *ir.Function
	parent int
}

// History is the inline-history ledger: it prevents re-inlining a
// function into a chain that already contains it, which is the defence
// against infinite inlining through recursion exposed by prior
// inlining. It grows monotonically for the lifetime of one driver
// invocation and is discarded with it.
type History struct {
	entries []historyEntry
}

// NewHistory creates an empty ledger.
func NewHistory() *History {
	return &History{}
}

// RootIndex is the parent value used for a call site that was present
// in the IR before any inlining.
const RootIndex = -1

// Add records that callee was inlined into a chain rooted at parent,
// returning the new entry's index. It panics if parent doesn't refer to
// an existing entry or RootIndex; an out-of-range parent is an
// invariant violation, never a recoverable policy decision.
func (h *History) Add(callee *ir.Function, parent int) int {
	if parent != RootIndex && (parent < 0 || parent >= len(h.entries)) {
		panic("inline: history parent index out of range")
	}
	h.entries = append(h.entries, historyEntry{callee: callee, parent: parent})
	return len(h.entries) - 1
}

// IncludesFunction walks the chain starting at id towards the root and
// reports whether f appears anywhere along it.
func (h *History) IncludesFunction(f *ir.Function, id int) bool {
	for id != RootIndex {
		if id < 0 || id >= len(h.entries) {
			panic("inline: history chain index out of range")
		}
		e := h.entries[id]
		if e.callee == f {
			return true
		}
		id = e.parent
	}
	return false
}

// Chain returns every callee on the path from id to the root, in
// root-to-leaf order. Exposed mainly for tests asserting that a
// function appears at most once on any root-to-leaf path.
func (h *History) Chain(id int) []*ir.Function {
	var reversed []*ir.Function
	for id != RootIndex {
		e := h.entries[id]
		reversed = append(reversed, e.callee)
		id = e.parent
	}
	chain := make([]*ir.Function, len(reversed))
	for i, f := range reversed {
		chain[len(reversed)-1-i] = f
	}
	return chain
}
