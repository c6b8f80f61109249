package sd

// Array is an ordered list of values.
type Array struct {
	values []Value
}

// NewArray creates an empty array.
func NewArray(values ...Value) *Array {
	a := &Array{}
	a.values = append(a.values, values...)

	return a
}

// Add appends v.
func (a *Array) Add(v Value) {
	a.values = append(a.values, v)
}

// RemoveAt removes the value at index i.
// It panics if i is out of range.
func (a *Array) RemoveAt(i int) {
	a.values = append(a.values[:i], a.values[i+1:]...)
}

// Remove removes every value equal to v.
func (a *Array) Remove(v Value) {
	out := a.values[:0]
	for _, e := range a.values {
		if !e.Equal(v) {
			out = append(out, e)
		}
	}
	clear(a.values[len(out):])
	a.values = out
}

// Get returns the value at index i, if any.
func (a *Array) Get(i int) (Value, bool) {
	if i < 0 || i >= len(a.values) {
		return Value{}, false
	}

	return a.values[i], true
}

// Len returns the number of values.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}

	return len(a.values)
}

// Values returns a copy of the values in order.
func (a *Array) Values() []Value {
	out := make([]Value, len(a.values))
	copy(out, a.values)

	return out
}

// Equal reports whether both arrays hold equal values in the same order.
func (a *Array) Equal(other *Array) bool {
	if a == nil || other == nil {
		return a.Len() == other.Len()
	}
	if len(a.values) != len(other.values) {
		return false
	}
	for i := range a.values {
		if !a.values[i].Equal(other.values[i]) {
			return false
		}
	}

	return true
}
