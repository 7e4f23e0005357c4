package ir

// Module owns every Function; the inliner never deletes a Function
// except through Module.RemoveFunc.
type Module struct {
	funcs   []*Function
	byName  map[string]*Function
	comdats map[string]*Comdat
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{byName: make(map[string]*Function), comdats: make(map[string]*Comdat)}
}

// AddFunc registers f with the module.
func (m *Module) AddFunc(f *Function) {
	m.funcs = append(m.funcs, f)
	m.byName[f.Name] = f
}

// Funcs returns every function currently in the module, in definition
// order.
func (m *Module) Funcs() []*Function {
	return m.funcs
}

// FuncByName looks up a function by name.
func (m *Module) FuncByName(name string) *Function {
	return m.byName[name]
}

// Comdat returns (creating if necessary) the named COMDAT group.
func (m *Module) Comdat(name string) *Comdat {
	c, ok := m.comdats[name]
	if !ok {
		c = NewComdat(name)
		m.comdats[name] = c
	}
	return c
}

// RemoveFunc detaches f from the module. The caller must have already
// ensured f has no remaining callers; the inline drivers and the
// sweeper check this before invoking RemoveFunc.
func (m *Module) RemoveFunc(f *Function) {
	for i, candidate := range m.funcs {
		if candidate == f {
			m.funcs = append(m.funcs[:i], m.funcs[i+1:]...)
			break
		}
	}
	delete(m.byName, f.Name)
	if f.comdat != nil {
		f.comdat.RemoveMember(f)
	}
}

// UsersOf returns every call instruction anywhere in the module whose
// statically known Callee is f. It is always recomputed fresh rather
// than cached; a stale copy held across a mutation would be wrong.
func (m *Module) UsersOf(f *Function) []*CallInst {
	var out []*CallInst
	for _, caller := range m.funcs {
		for _, call := range caller.AllCallInsts() {
			if call.Callee == f {
				out = append(out, call)
			}
		}
	}
	return out
}

// HasNonCallReference reports whether f is referenced by anything other
// than a direct call (e.g. taken as a function value). The IR in this
// package has no value form of a function, so this is only true once
// MarkAddressTaken has been called on f.
func (f *Function) HasNonCallReference() bool {
	return f.addressTaken
}

// MarkAddressTaken records that f's address escapes as a value
// somewhere, which defeats both the deferral heuristic's "caller fully
// removed" assumption and the sweeper's dead-function test.
func (f *Function) MarkAddressTaken() { f.addressTaken = true }
