package collision

// Tracker records the property names set on a structured data object together
// with their hashes, and detects two distinct names mapping to the same hash.
type Tracker struct {
	names        map[uint64]string // Hash → first name seen with that hash
	namesList    []string          // Distinct names in insertion order
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:     make(map[uint64]string),
		namesList: make([]string, 0),
	}
}

// Track records name under hash.
//
// Tracking the same name again is a no-op. A different name with an already
// tracked hash sets the collision flag; the name is still recorded so debug
// symbols list every name the caller used.
func (t *Tracker) Track(name string, hash uint64) {
	if existing, ok := t.names[hash]; ok {
		if existing == name {
			return
		}
		t.hasCollision = true
	} else {
		t.names[hash] = name
	}

	t.namesList = append(t.namesList, name)
}

// HasCollision returns true if a collision has been detected.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns a copy of the tracked names in insertion order.
func (t *Tracker) Names() []string {
	out := make([]string, len(t.namesList))
	copy(out, t.namesList)

	return out
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.namesList)
}

// Reset clears all tracked names and collision state.
func (t *Tracker) Reset() {
	clear(t.names)
	t.namesList = t.namesList[:0]
	t.hasCollision = false
}
