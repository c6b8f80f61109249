package sd

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/bpx/errs"
)

func TestHash(t *testing.T) {
	require.Equal(t, uint64(193491849), Hash("foo"))
	require.Equal(t, Hash("foo"), Hash("foo"))
	require.Equal(t, uint64(5381), Hash(""))
	require.NotEqual(t, Hash("foo"), Hash("oof"))
}

func TestObject_SetGet(t *testing.T) {
	o := NewObject()
	o.Set("foo", Uint32(42))

	v, ok := o.Get("foo")
	require.True(t, ok)
	require.True(t, v.Equal(Uint32(42)))

	v, ok = o.RawGet(Hash("foo"))
	require.True(t, ok)
	n, ok := v.AsUint32()
	require.True(t, ok)
	require.Equal(t, uint32(42), n)

	_, ok = v.AsUint64()
	require.False(t, ok)

	_, ok = o.Get("bar")
	require.False(t, ok)
}

func TestObject_KeyOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", Null())
	o.Set("a", Null())
	o.Set("c", Null())
	o.Set("a", Bool(true))

	require.Equal(t, []uint64{Hash("b"), Hash("a"), Hash("c")}, o.Keys())
	require.Equal(t, 3, o.PropCount())

	v, _ := o.Get("a")
	require.Equal(t, TypeBool, v.Type())
}

func TestObject_Collision(t *testing.T) {
	// "Ez" and "FY" share a DJB2 hash.
	require.Equal(t, Hash("Ez"), Hash("FY"))

	o := NewObject()
	o.Set("Ez", Uint8(1))
	o.Set("Ez", Uint8(2))
	require.False(t, o.HasCollision())

	o.Set("FY", Uint8(3))
	require.True(t, o.HasCollision())
	require.Equal(t, 1, o.PropCount())

	v, _ := o.Get("Ez")
	n, _ := v.AsUint8()
	require.Equal(t, uint8(3), n)
}

func TestObject_DebugInfo(t *testing.T) {
	o := NewObject()
	o.Set("name", String("demo"))
	o.Set("size", Uint64(10))
	o.RawSet(0xABC, Null())
	o.AddDebugInfo()

	v, ok := o.Get(DebugKey)
	require.True(t, ok)
	arr, ok := v.AsArray()
	require.True(t, ok)
	require.Equal(t, 2, arr.Len())

	syms, err := LoadDebugSymbols(o)
	require.NoError(t, err)
	require.Equal(t, 2, syms.Len())
	require.Equal(t, "name", syms.Lookup(Hash("name")))
	require.Equal(t, "size", syms.Lookup(Hash("size")))
	require.Equal(t, "0xABC", syms.Lookup(0xABC))
	require.Equal(t, fmt.Sprintf("0x%X", Hash(DebugKey)), syms.Lookup(Hash(DebugKey)))

	// A second call snapshots only names set since the first, i.e. DebugKey.
	o.AddDebugInfo()
	v, _ = o.Get(DebugKey)
	arr, _ = v.AsArray()
	require.Equal(t, 1, arr.Len())
}

func TestLoadDebugSymbols_Invalid(t *testing.T) {
	o := NewObject()
	o.Set(DebugKey, Uint8(1))
	_, err := LoadDebugSymbols(o)
	require.ErrorIs(t, err, errs.ErrInvalidDebugSymbols)

	o.Set(DebugKey, ArrayValue(NewArray(String("ok"), Int8(1))))
	_, err = LoadDebugSymbols(o)
	require.ErrorIs(t, err, errs.ErrInvalidDebugSymbols)

	syms, err := LoadDebugSymbols(NewObject())
	require.NoError(t, err)
	require.Zero(t, syms.Len())
}

func TestArray(t *testing.T) {
	a := NewArray(Uint8(1), String("x"), Uint8(1), Null())
	require.Equal(t, 4, a.Len())

	a.Remove(Uint8(1))
	require.Equal(t, 2, a.Len())

	a.RemoveAt(0)
	v, ok := a.Get(0)
	require.True(t, ok)
	require.True(t, v.IsNull())

	_, ok = a.Get(1)
	require.False(t, ok)
	_, ok = a.Get(-1)
	require.False(t, ok)

	require.Panics(t, func() { a.RemoveAt(5) })
	require.True(t, NewArray(Null()).Equal(a))
	require.False(t, NewArray().Equal(a))
}

func TestValue_Equal(t *testing.T) {
	require.True(t, Null().Equal(Value{}))
	require.False(t, Uint8(1).Equal(Int8(1)))
	require.True(t, Int64(-5).Equal(Int64(-5)))
	require.True(t, String("a").Equal(String("a")))
	require.False(t, String("a").Equal(String("b")))

	o1 := NewObject()
	o1.Set("a", Uint8(1))
	o1.Set("b", Uint8(2))
	o2 := NewObject()
	o2.Set("b", Uint8(2))
	o2.Set("a", Uint8(1))
	require.True(t, ObjectValue(o1).Equal(ObjectValue(o2)))
	require.True(t, ObjectValue(nil).Equal(ObjectValue(NewObject())))
}

func TestPrint(t *testing.T) {
	inner := NewObject()
	inner.Set("x", Int8(-1))

	o := NewObject()
	o.Set("name", String("demo"))
	o.Set("ok", Bool(true))
	o.Set("size", Uint64(1024))
	o.Set("list", ArrayValue(NewArray(Float(1.5), Null())))
	o.Set("inner", ObjectValue(inner))
	o.RawSet(0x10, Double(2.5))
	o.AddDebugInfo()

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, o))

	expected := "{\n" +
		"\t name: demo\n" +
		"\t ok: true\n" +
		"\t size: (Uint64) 1024\n" +
		"\t list: [\n" +
		"\t\t (Float) 1.5\n" +
		"\t\t NULL\n" +
		"\t]\n" +
		"\t inner: {\n" +
		fmt.Sprintf("\t\t 0x%X: (Int8) -1\n", Hash("x")) +
		"\t}\n" +
		"\t 0x10: (Double) 2.5\n" +
		"\t __debug__: [\n" +
		"\t\t name\n" +
		"\t\t ok\n" +
		"\t\t size\n" +
		"\t\t list\n" +
		"\t\t inner\n" +
		"\t]\n" +
		"}\n"
	require.Equal(t, expected, buf.String())
}

func TestToNative(t *testing.T) {
	inner := NewObject()
	inner.Set("enabled", Bool(false))
	inner.AddDebugInfo()

	o := NewObject()
	o.Set("name", String("demo"))
	o.Set("count", Uint16(7))
	o.Set("tags", ArrayValue(NewArray(String("a"), Int32(-2))))
	o.Set("inner", ObjectValue(inner))
	o.AddDebugInfo()

	native, err := ToNative(o)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"name":  "demo",
		"count": uint16(7),
		"tags":  []any{"a", int32(-2)},
		"inner": map[string]any{"enabled": false},
	}, native)

	out, err := yaml.Marshal(native)
	require.NoError(t, err)
	require.Contains(t, string(out), "name: demo")
	require.Contains(t, string(out), "enabled: false")
}
