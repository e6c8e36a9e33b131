package factory

// MaterialLedger is the name-keyed inventory. Entries keep insertion order;
// putting a name that already exists replaces the entry in place.
type MaterialLedger struct {
	entries []*Material
	index   map[string]int
}

// NewMaterialLedger creates a ledger holding the given materials (last write wins)
func NewMaterialLedger(materials ...*Material) *MaterialLedger {
	l := &MaterialLedger{index: make(map[string]int)}
	for _, m := range materials {
		l.Put(m)
	}
	return l
}

// Put stores m, replacing any entry with the same name.
// Returns the replaced entry, if any.
func (l *MaterialLedger) Put(m *Material) *Material {
	if m == nil {
		return nil
	}
	if i, ok := l.index[m.Name()]; ok {
		previous := l.entries[i]
		l.entries[i] = m
		return previous
	}
	l.index[m.Name()] = len(l.entries)
	l.entries = append(l.entries, m)
	return nil
}

// Get returns the entry for name
func (l *MaterialLedger) Get(name string) (*Material, bool) {
	i, ok := l.index[name]
	if !ok {
		return nil, false
	}
	return l.entries[i], true
}

// Remove deletes the entry for name. Unknown names are ignored.
func (l *MaterialLedger) Remove(name string) bool {
	i, ok := l.index[name]
	if !ok {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	delete(l.index, name)
	for j := i; j < len(l.entries); j++ {
		l.index[l.entries[j].Name()] = j
	}
	return true
}

// All returns the entries in insertion order
func (l *MaterialLedger) All() []*Material {
	out := make([]*Material, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *MaterialLedger) Len() int {
	return len(l.entries)
}

// LowStock returns the entries at or below their minimum
func (l *MaterialLedger) LowStock() []*Material {
	var low []*Material
	for _, m := range l.entries {
		if m.IsLowStock() {
			low = append(low, m)
		}
	}
	return low
}
