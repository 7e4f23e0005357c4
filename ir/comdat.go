package ir

// Comdat is a linker group in which members live or die together;
// removing only one member of a group is unsound.
type Comdat struct {
	Name string

	members map[*Function]bool
}

// NewComdat creates a new, empty Comdat group.
func NewComdat(name string) *Comdat {
	return &Comdat{Name: name, members: make(map[*Function]bool)}
}

// AddMember enrolls f in the group.
func (c *Comdat) AddMember(f *Function) {
	c.members[f] = true
	f.comdat = c
}

// RemoveMember evicts f from the group, e.g. once it has been deleted.
func (c *Comdat) RemoveMember(f *Function) {
	delete(c.members, f)
}

// HasLiveMember reports whether any member of the group other than the
// ones in dead is still schedulable, i.e. the group has a survivor.
func (c *Comdat) HasLiveMember(dead map[*Function]bool) bool {
	for f := range c.members {
		if !dead[f] {
			return true
		}
	}
	return false
}

// Members returns every function currently enrolled in the group.
func (c *Comdat) Members() []*Function {
	out := make([]*Function, 0, len(c.members))
	for f := range c.members {
		out = append(out, f)
	}
	return out
}
