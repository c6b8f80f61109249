package sd

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bpx/errs"
)

func everyTypeObject() *Object {
	inner := NewObject()
	inner.Set("leaf", arrayOf(Uint8(1), String("two"), Null()))

	nested := NewArray(ObjectValue(inner), Int16(-7))

	o := NewObject()
	o.Set("null", Null())
	o.Set("bool", Bool(true))
	o.Set("false", Bool(false))
	o.Set("u8", Uint8(math.MaxUint8))
	o.Set("u16", Uint16(math.MaxUint16))
	o.Set("u32", Uint32(math.MaxUint32))
	o.Set("u64", Uint64(math.MaxUint64))
	o.Set("i8", Int8(math.MinInt8))
	o.Set("i16", Int16(math.MinInt16))
	o.Set("i32", Int32(math.MinInt32))
	o.Set("i64", Int64(math.MinInt64))
	o.Set("f32", Float(3.25))
	o.Set("f64", Double(-1e300))
	o.Set("str", String("héllo"))
	o.Set("empty", String(""))
	o.Set("arr", ArrayValue(nested))
	o.Set("obj", ObjectValue(NewObject()))

	return o
}

func arrayOf(values ...Value) Value {
	return ArrayValue(NewArray(values...))
}

func TestCodec_RoundTrip(t *testing.T) {
	o := everyTypeObject()
	o.AddDebugInfo()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, o))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.True(t, o.Equal(decoded))
	require.Equal(t, o.Keys(), decoded.Keys())

	v, ok := decoded.Get("i8")
	require.True(t, ok)
	i8, ok := v.AsInt8()
	require.True(t, ok)
	require.Equal(t, int8(math.MinInt8), i8)

	v, _ = decoded.Get("arr")
	arr, ok := v.AsArray()
	require.True(t, ok)
	first, ok := arr.Get(0)
	require.True(t, ok)
	inner, ok := first.AsObject()
	require.True(t, ok)
	leaf, ok := inner.Get("leaf")
	require.True(t, ok)
	leafArr, _ := leaf.AsArray()
	s, _ := leafArr.Values()[1].AsString()
	require.Equal(t, "two", s)
}

func TestCodec_Layout(t *testing.T) {
	o := NewObject()
	o.Set("a", Uint16(0x0102))

	data := encodeToBytes(t, o)

	expected := []byte{1}
	expected = le.AppendUint64(expected, Hash("a"))
	expected = append(expected, byte(TypeUint16), 0x02, 0x01)
	require.Equal(t, expected, data)

	arr := NewObject()
	arr.Set("s", arrayOf(String("x"), Bool(true)))
	data = encodeToBytes(t, arr)
	require.Equal(t, []byte{byte(TypeArray), 2, byte(TypeString), 'x', 0, byte(TypeBool), 1}, data[9:])
}

func TestCodec_EmptyObject(t *testing.T) {
	data := encodeToBytes(t, NewObject())
	require.Equal(t, []byte{0}, data)

	o, err := DecodeBytes(data)
	require.NoError(t, err)
	require.Zero(t, o.PropCount())
}

func TestCodec_ValueLimit(t *testing.T) {
	t.Run("object 255", func(t *testing.T) {
		o := NewObject()
		for i := 0; i < MaxValues; i++ {
			o.RawSet(uint64(i), Uint8(uint8(i)))
		}

		decoded, err := DecodeBytes(encodeToBytes(t, o))
		require.NoError(t, err)
		require.Equal(t, MaxValues, decoded.PropCount())
	})

	t.Run("object 256", func(t *testing.T) {
		o := NewObject()
		for i := 0; i <= MaxValues; i++ {
			o.RawSet(uint64(i), Null())
		}
		require.ErrorIs(t, Encode(&bytes.Buffer{}, o), errs.ErrTooManyValues)
	})

	t.Run("array 255", func(t *testing.T) {
		a := NewArray()
		for i := 0; i < MaxValues; i++ {
			a.Add(Int32(int32(i)))
		}
		o := NewObject()
		o.Set("a", ArrayValue(a))

		decoded, err := DecodeBytes(encodeToBytes(t, o))
		require.NoError(t, err)
		v, _ := decoded.Get("a")
		got, _ := v.AsArray()
		require.Equal(t, MaxValues, got.Len())
	})

	t.Run("array 256", func(t *testing.T) {
		a := NewArray()
		for i := 0; i <= MaxValues; i++ {
			a.Add(Null())
		}
		o := NewObject()
		o.Set("a", ArrayValue(a))

		var buf bytes.Buffer
		require.ErrorIs(t, Encode(&buf, o), errs.ErrTooManyValues)
		require.Zero(t, buf.Len())
	})
}

func TestCodec_Cycle(t *testing.T) {
	o := NewObject()
	o.Set("self", ObjectValue(o))

	require.ErrorIs(t, Encode(&bytes.Buffer{}, o), errs.ErrNestingTooDeep)
}

func TestEncode_InvalidString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  error
	}{
		{"embedded nul", String("a\x00b"), errs.ErrInvalidString},
		{"trailing nul", String("a\x00"), errs.ErrInvalidString},
		{"invalid utf8", String("\xff\xfe"), errs.ErrInvalidUTF8},
		{"nested in array", arrayOf(Uint8(1), String("\xc3\x28")), errs.ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewObject()
			o.Set("k", tt.value)
			o.Set("n", Uint8(7))

			var buf bytes.Buffer
			require.ErrorIs(t, Encode(&buf, o), tt.want)
			require.Zero(t, buf.Len(), "nothing is written on failure")
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	valid := NewObject()
	valid.Set("name", String("value"))
	data := encodeToBytes(t, valid)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errs.ErrTruncated},
		{"short property header", data[:5], errs.ErrTruncated},
		{"unterminated string", data[:len(data)-1], errs.ErrTruncated},
		{"unknown type code", []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0x0F}, errs.ErrUnknownTypeCode},
		{"short scalar", []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, byte(TypeUint32), 1, 2}, errs.ErrTruncated},
		{"invalid utf8", []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, byte(TypeString), 0xC3, 0x28, 0}, errs.ErrInvalidUTF8},
		{"short array", []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, byte(TypeArray), 2, byte(TypeNull)}, errs.ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := DecodeBytes(tt.data)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, o)
		})
	}
}

func TestDecode_TooDeep(t *testing.T) {
	var data []byte
	for i := 0; i < MaxDepth+1; i++ {
		data = append(data, 1, 0, 0, 0, 0, 0, 0, 0, 0, byte(TypeObject))
	}
	data = append(data, 0)

	_, err := DecodeBytes(data)
	require.ErrorIs(t, err, errs.ErrNestingTooDeep)
}

func TestDecode_BoolIsStrict(t *testing.T) {
	o, err := DecodeBytes([]byte{1, 0, 0, 0, 0, 0, 0, 0, 0, byte(TypeBool), 2})
	require.NoError(t, err)

	v, ok := o.RawGet(0)
	require.True(t, ok)
	b, ok := v.AsBool()
	require.True(t, ok)
	require.False(t, b)
}

func encodeToBytes(t *testing.T, o *Object) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, o))

	return buf.Bytes()
}
