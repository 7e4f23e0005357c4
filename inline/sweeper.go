package inline

import (
	"sort"

	"github.com/arneph/inliner/callgraph"
	"github.com/arneph/inliner/ir"
)

// ComdatFilter retains, among a set of functions that are each
// individually dead but share a COMDAT group with something else, only
// those whose group has no surviving member. It is an injected
// collaborator rather than something this package derives itself, since
// "does this group have a live member" depends on linker-level COMDAT
// semantics the core doesn't otherwise model.
type ComdatFilter func(candidates []*ir.Function) []*ir.Function

// DefaultComdatFilter implements ComdatFilter using ir.Comdat.HasLiveMember
// directly: a candidate is removable only if every other member of its
// group is also in candidates (i.e. the group has no member outside the
// dead set).
func DefaultComdatFilter(candidates []*ir.Function) []*ir.Function {
	dead := make(map[*ir.Function]bool, len(candidates))
	for _, f := range candidates {
		dead[f] = true
	}
	var out []*ir.Function
	for _, f := range candidates {
		if f.Comdat() != nil && f.Comdat().HasLiveMember(dead) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Sweeper removes dead functions at end-of-pass.
type Sweeper struct {
	Module       *ir.Module
	Graph        *callgraph.CallGraph
	Stats        *Stats
	ComdatFilter ComdatFilter

	// AlwaysInlineOnly restricts the sweep to functions carrying
	// AttrAlwaysInline.
	AlwaysInlineOnly bool
}

// Sweep removes every function with no remaining references, respecting
// linkage and COMDAT groups.
func (s *Sweeper) Sweep() {
	filter := s.ComdatFilter
	if filter == nil {
		filter = DefaultComdatFilter
	}

	var immediate []*ir.Function
	var comdatDeferred []*ir.Function

	for _, f := range s.Module.Funcs() {
		if f.Declaration {
			continue
		}
		if s.AlwaysInlineOnly && !f.Attrs.Has(ir.AttrAlwaysInline) {
			continue
		}
		if !s.isTriviallyDead(f) {
			continue
		}
		if f.Linkage != ir.LinkageLocal && f.Comdat() != nil {
			comdatDeferred = append(comdatDeferred, f)
			continue
		}
		immediate = append(immediate, f)
	}

	removable := append(immediate, filter(comdatDeferred)...)

	sort.Slice(removable, func(i, j int) bool {
		return removable[i].Name < removable[j].Name
	})
	removable = uniqueFuncs(removable)

	for _, f := range removable {
		if n := s.Graph.Lookup(f); n != nil {
			s.Graph.DetachNode(n)
		}
		s.Module.RemoveFunc(f)
		s.Stats.NumDeleted++
	}
}

// isTriviallyDead reports whether f has no live uses and a linkage that
// permits discarding an unused definition.
func (s *Sweeper) isTriviallyDead(f *ir.Function) bool {
	if !f.Linkage.IsDiscardableIfUnused() {
		return false
	}
	if f.HasNonCallReference() {
		return false
	}
	if len(s.Module.UsersOf(f)) > 0 {
		return false
	}
	if n := s.Graph.Lookup(f); n != nil && n.ReferenceCount() > 0 {
		return false
	}
	return true
}

func uniqueFuncs(fs []*ir.Function) []*ir.Function {
	var out []*ir.Function
	var prev *ir.Function
	for _, f := range fs {
		if f == prev {
			continue
		}
		out = append(out, f)
		prev = f
	}
	return out
}
