package inline

import "github.com/arneph/inliner/ir"

// AllocaTable is the per-caller inlined-array-alloca table: a mapping
// from array element type to the previously inlined stack slots of that
// type that are available for reuse. The Action keeps one per caller for
// as long as the Action lives; a caller's calls are only inlined while
// its own SCC is processed, so in practice a table is only consulted
// during that SCC. Only the legacy driver fills one; the modern driver
// never constructs one.
type AllocaTable struct {
	byElemType map[string][]*ir.AllocaInst
}

// NewAllocaTable creates an empty table.
func NewAllocaTable() *AllocaTable {
	return &AllocaTable{byElemType: make(map[string][]*ir.AllocaInst)}
}

// mergeAllocas reuses whatever prior stack slots it safely can for the
// static allocations a single TryInline just produced, and registers
// the rest in the table. historyIndex is the inline-history index of
// the call site that was just inlined.
//
// A candidate slot is only eligible when it sits in the same entry
// block as the new allocation: both are static entry-block allocas, so
// comparing parent blocks is a same-caller check once both have been
// spliced into that caller's entry block.
func mergeAllocas(newAllocas []*ir.AllocaInst, table *AllocaTable, historyIndex int, stats *Stats) {
	if historyIndex != RootIndex {
		// A call site itself produced by a prior inline has locals
		// whose lifetimes aren't provably disjoint from a merge
		// target's. Refuse outright.
		return
	}

	usedThisInline := make(map[*ir.AllocaInst]bool)
	for _, a := range newAllocas {
		arrType, ok := ir.AsArrayType(a.AllocatedType)
		if !ok {
			continue
		}
		if a.IsDynamic() {
			continue
		}

		key := arrType.ElemType.String()
		var merged bool
		for _, b := range table.byElemType[key] {
			if usedThisInline[b] {
				continue
			}
			if b.Parent() != a.Parent() {
				continue
			}
			absorb(b, a)
			usedThisInline[b] = true
			stats.NumMergedAllocas++
			merged = true
			break
		}
		if !merged {
			table.byElemType[key] = append(table.byElemType[key], a)
			usedThisInline[a] = true
		}
	}
}

// absorb replaces every use of dying with survivor, migrates dying's
// debug-value metadata to trail survivor, raises survivor's alignment to
// the max of the two (treating an Align of 0 as "ABI alignment of the
// type"), and erases dying from its block.
func absorb(survivor, dying *ir.AllocaInst) {
	dying.ReplaceAllUsesWith(survivor)

	sAlign := survivor.Align
	if sAlign == 0 {
		sAlign = ir.ABIAlign(survivor.AllocatedType)
	}
	dAlign := dying.Align
	if dAlign == 0 {
		dAlign = ir.ABIAlign(dying.AllocatedType)
	}
	if dAlign > sAlign {
		survivor.Align = dAlign
	}

	if b := dying.Parent(); b != nil {
		if i := b.IndexOf(dying); i >= 0 {
			b.RemoveInstAt(i)
		}
	}
}
