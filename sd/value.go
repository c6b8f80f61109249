package sd

import "math"

// Value is a BPXSD value. The zero Value is Null.
//
// Scalars are stored in a single 64-bit slot; String, Array and Object values
// reference their payload. Array and Object values share the referenced
// container, they do not copy it.
type Value struct {
	typ  Type
	bits uint64
	str  string
	arr  *Array
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(v bool) Value {
	var b uint64
	if v {
		b = 1
	}

	return Value{typ: TypeBool, bits: b}
}

func Uint8(v uint8) Value   { return Value{typ: TypeUint8, bits: uint64(v)} }
func Uint16(v uint16) Value { return Value{typ: TypeUint16, bits: uint64(v)} }
func Uint32(v uint32) Value { return Value{typ: TypeUint32, bits: uint64(v)} }
func Uint64(v uint64) Value { return Value{typ: TypeUint64, bits: v} }
func Int8(v int8) Value     { return Value{typ: TypeInt8, bits: uint64(v)} }
func Int16(v int16) Value   { return Value{typ: TypeInt16, bits: uint64(v)} }
func Int32(v int32) Value   { return Value{typ: TypeInt32, bits: uint64(v)} }
func Int64(v int64) Value   { return Value{typ: TypeInt64, bits: uint64(v)} }

// Float returns a single precision value.
func Float(v float32) Value { return Value{typ: TypeFloat, bits: uint64(math.Float32bits(v))} }

// Double returns a double precision value.
func Double(v float64) Value { return Value{typ: TypeDouble, bits: math.Float64bits(v)} }

// String returns a string value. The string must be valid UTF-8 without NUL
// bytes to survive encoding.
func String(v string) Value { return Value{typ: TypeString, str: v} }

// ArrayValue wraps a. A nil array is encoded as an empty one.
func ArrayValue(a *Array) Value {
	if a == nil {
		a = NewArray()
	}

	return Value{typ: TypeArray, arr: a}
}

// ObjectValue wraps o. A nil object is encoded as an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{typ: TypeObject, obj: o}
}

// Type returns the type code of v.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.typ == TypeNull }

func (v Value) AsBool() (bool, bool)     { return v.bits != 0, v.typ == TypeBool }
func (v Value) AsUint8() (uint8, bool)   { return uint8(v.bits), v.typ == TypeUint8 }
func (v Value) AsUint16() (uint16, bool) { return uint16(v.bits), v.typ == TypeUint16 }
func (v Value) AsUint32() (uint32, bool) { return uint32(v.bits), v.typ == TypeUint32 }
func (v Value) AsUint64() (uint64, bool) { return v.bits, v.typ == TypeUint64 }
func (v Value) AsInt8() (int8, bool)     { return int8(v.bits), v.typ == TypeInt8 }
func (v Value) AsInt16() (int16, bool)   { return int16(v.bits), v.typ == TypeInt16 }
func (v Value) AsInt32() (int32, bool)   { return int32(v.bits), v.typ == TypeInt32 }
func (v Value) AsInt64() (int64, bool)   { return int64(v.bits), v.typ == TypeInt64 }

func (v Value) AsFloat() (float32, bool) {
	return math.Float32frombits(uint32(v.bits)), v.typ == TypeFloat
}

func (v Value) AsDouble() (float64, bool) {
	return math.Float64frombits(v.bits), v.typ == TypeDouble
}

func (v Value) AsString() (string, bool) { return v.str, v.typ == TypeString }
func (v Value) AsArray() (*Array, bool)  { return v.arr, v.typ == TypeArray }
func (v Value) AsObject() (*Object, bool) {
	return v.obj, v.typ == TypeObject
}

// Equal reports whether v and other have the same type and content.
//
// Floating point values compare by bit pattern, so a NaN equals itself after a
// round trip. Arrays compare element-wise, objects property-wise regardless of
// insertion order.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}

	switch v.typ {
	case TypeNull:
		return true
	case TypeString:
		return v.str == other.str
	case TypeArray:
		return v.arr.Equal(other.arr)
	case TypeObject:
		return v.obj.Equal(other.obj)
	default:
		return v.bits == other.bits
	}
}
