package gamepad

// MaxGamepads is the number of device slots tracked at once.
const MaxGamepads = 8

// SlotTable maps backend-native device handles to stable slot indices.
// A slot is claimed on first sighting and never handed to another handle for
// the lifetime of the table; disconnecting does not free it.
type SlotTable[H comparable] struct {
	handles [MaxGamepads]H
	n       int
}

// Find returns the slot already holding h.
func (t *SlotTable[H]) Find(h H) (int, bool) {
	for i := 0; i < t.n; i++ {
		if t.handles[i] == h {
			return i, true
		}
	}
	return 0, false
}

// FindOrInsert returns the slot holding h, claiming the next free slot for an
// unseen handle. It reports false when all slots belong to other handles.
func (t *SlotTable[H]) FindOrInsert(h H) (int, bool) {
	if slot, ok := t.Find(h); ok {
		return slot, true
	}
	if t.n == MaxGamepads {
		return 0, false
	}
	slot := t.n
	t.handles[slot] = h
	t.n++
	return slot, true
}

// Handle resolves an occupied slot back to its native handle.
func (t *SlotTable[H]) Handle(slot int) (H, bool) {
	if slot < 0 || slot >= t.n {
		var zero H
		return zero, false
	}
	return t.handles[slot], true
}

// Len returns the number of occupied slots.
func (t *SlotTable[H]) Len() int { return t.n }
