package sd

import (
	"github.com/arloliu/bpx/internal/collision"
	"github.com/arloliu/bpx/internal/hash"
)

// DebugKey is the reserved property holding the debug symbol array.
const DebugKey = "__debug__"

// Hash returns the 64-bit DJB2 hash BPXSD uses as property key for name.
func Hash(name string) uint64 {
	return hash.Name(name)
}

// Object maps property hashes to values.
//
// Properties keep their insertion order, which is also the encoding order.
// Setting an existing property replaces its value in place.
type Object struct {
	props map[uint64]Value
	keys  []uint64
	names *collision.Tracker
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{
		props: make(map[uint64]Value),
		names: collision.NewTracker(),
	}
}

// Set stores v under the hash of name and records name for AddDebugInfo.
func (o *Object) Set(name string, v Value) {
	h := Hash(name)
	o.RawSet(h, v)
	o.names.Track(name, h)
}

// RawSet stores v under hash. The name is unknown, so no debug symbol is recorded.
func (o *Object) RawSet(hash uint64, v Value) {
	if _, ok := o.props[hash]; !ok {
		o.keys = append(o.keys, hash)
	}
	o.props[hash] = v
}

// Get returns the value stored under the hash of name.
func (o *Object) Get(name string) (Value, bool) {
	return o.RawGet(Hash(name))
}

// RawGet returns the value stored under hash.
func (o *Object) RawGet(hash uint64) (Value, bool) {
	v, ok := o.props[hash]
	return v, ok
}

// PropCount returns the number of properties.
func (o *Object) PropCount() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Keys returns the property hashes in insertion order.
func (o *Object) Keys() []uint64 {
	out := make([]uint64, len(o.keys))
	copy(out, o.keys)

	return out
}

// HasCollision reports whether two distinct names set on this object hashed to
// the same key. The later Set silently replaced the earlier value.
func (o *Object) HasCollision() bool {
	return o.names.HasCollision()
}

// AddDebugInfo stores the names passed to Set so far as a string array under
// DebugKey, then starts a new name list containing only DebugKey.
func (o *Object) AddDebugInfo() {
	names := o.names.Names()
	o.names.Reset()

	arr := NewArray()
	for _, n := range names {
		arr.Add(String(n))
	}
	o.Set(DebugKey, ArrayValue(arr))
}

// Equal reports whether both objects hold the same properties with equal values.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o.PropCount() == other.PropCount()
	}
	if len(o.props) != len(other.props) {
		return false
	}
	for h, v := range o.props {
		ov, ok := other.props[h]
		if !ok || !v.Equal(ov) {
			return false
		}
	}

	return true
}
