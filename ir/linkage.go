package ir

// Linkage describes how a Function's definition is visible outside its
// enclosing Module.
type Linkage int

const (
	// LinkageExternal is a unique, externally visible definition.
	LinkageExternal Linkage = iota
	// LinkageLocal is visible only within its own Module (static linkage).
	LinkageLocal
	// LinkageLinkOnceODR is a definition the linker may discard duplicates
	// of, so long as every duplicate compares identical (one-definition
	// rule). Typical of instantiated templates/generics and inline
	// functions emitted into every translation unit that uses them.
	LinkageLinkOnceODR
	// LinkageWeakODR is like LinkageLinkOnceODR but a definition must
	// survive even if unreferenced.
	LinkageWeakODR
	// LinkageAvailableExternally is a definition provided purely for
	// inlining purposes; the linker never emits code for it.
	LinkageAvailableExternally
)

func (l Linkage) String() string {
	switch l {
	case LinkageExternal:
		return "external"
	case LinkageLocal:
		return "local"
	case LinkageLinkOnceODR:
		return "linkonce_odr"
	case LinkageWeakODR:
		return "weak_odr"
	case LinkageAvailableExternally:
		return "available_externally"
	default:
		return "unknown"
	}
}

// IsDiscardableIfUnused reports whether the linker is free to drop a
// definition of this linkage if it ends up with no uses, which is what
// makes it eligible at all for the dead-function sweeper.
func (l Linkage) IsDiscardableIfUnused() bool {
	switch l {
	case LinkageLocal, LinkageLinkOnceODR, LinkageAvailableExternally:
		return true
	default:
		return false
	}
}

// CanBeInlineCandidateForDeferral reports whether a caller of this linkage
// is itself a plausible inlining target, which is what the deferral
// heuristic keys off of: only local and linkonce-ODR callers are
// themselves squeezed out of existence by a later inline.
func (l Linkage) CanBeInlineCandidateForDeferral() bool {
	return l == LinkageLocal || l == LinkageLinkOnceODR
}
