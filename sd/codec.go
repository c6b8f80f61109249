package sd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/bpx/endian"
	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/internal/pool"
)

const (
	// MaxValues is the largest number of properties or elements a single object
	// or array can hold.
	MaxValues = 255
	// MaxDepth bounds the nesting of arrays and objects.
	MaxDepth = 128
)

var le = endian.GetLittleEndianEngine()

// Encode writes o to w in a single call.
//
// Returns:
//   - error: ErrTooManyValues if any object or array holds more than 255 values,
//     ErrNestingTooDeep for cyclic or overly deep values, or the error from w
func Encode(w io.Writer, o *Object) error {
	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)

	if err := encodeObject(bb, o, 0); err != nil {
		return err
	}

	_, err := bb.WriteTo(w)

	return err
}

func encodeObject(bb *pool.ByteBuffer, o *Object, depth int) error {
	if depth >= MaxDepth {
		return errs.ErrNestingTooDeep
	}

	count := o.PropCount()
	if count > MaxValues {
		return fmt.Errorf("%w: object has %d properties", errs.ErrTooManyValues, count)
	}

	_ = bb.WriteByte(uint8(count))
	if count == 0 {
		return nil
	}

	for _, h := range o.keys {
		v := o.props[h]
		bb.Grow(9)
		bb.B = le.AppendUint64(bb.B, h)
		bb.B = append(bb.B, uint8(v.typ))
		if err := encodeValue(bb, v, depth); err != nil {
			return err
		}
	}

	return nil
}

func encodeArray(bb *pool.ByteBuffer, a *Array, depth int) error {
	if depth >= MaxDepth {
		return errs.ErrNestingTooDeep
	}

	count := a.Len()
	if count > MaxValues {
		return fmt.Errorf("%w: array has %d elements", errs.ErrTooManyValues, count)
	}

	_ = bb.WriteByte(uint8(count))
	for i := 0; i < count; i++ {
		v := a.values[i]
		_ = bb.WriteByte(uint8(v.typ))
		if err := encodeValue(bb, v, depth); err != nil {
			return err
		}
	}

	return nil
}

func encodeValue(bb *pool.ByteBuffer, v Value, depth int) error {
	switch v.typ {
	case TypeNull:
	case TypeBool, TypeUint8, TypeInt8:
		_ = bb.WriteByte(uint8(v.bits))
	case TypeUint16, TypeInt16:
		bb.Grow(2)
		bb.B = le.AppendUint16(bb.B, uint16(v.bits))
	case TypeUint32, TypeInt32, TypeFloat:
		bb.Grow(4)
		bb.B = le.AppendUint32(bb.B, uint32(v.bits))
	case TypeUint64, TypeInt64, TypeDouble:
		bb.Grow(8)
		bb.B = le.AppendUint64(bb.B, v.bits)
	case TypeString:
		if err := checkString(v.str); err != nil {
			return err
		}
		_, _ = bb.WriteString(v.str)
		_ = bb.WriteByte(0)
	case TypeArray:
		return encodeArray(bb, v.arr, depth+1)
	case TypeObject:
		return encodeObject(bb, v.obj, depth+1)
	default:
		return fmt.Errorf("%w: %#x", errs.ErrUnknownTypeCode, uint8(v.typ))
	}

	return nil
}

// checkString rejects strings that would not decode back to themselves.
func checkString(str string) error {
	if i := strings.IndexByte(str, 0); i >= 0 {
		return fmt.Errorf("%w: at byte %d", errs.ErrInvalidString, i)
	}
	if !utf8.ValidString(str) {
		return errs.ErrInvalidUTF8
	}

	return nil
}

// Decode reads one object from r.
//
// Decode buffers its input, so it may consume bytes of r past the end of the
// object. Any failure is fatal: no partially decoded object is returned.
//
// Returns:
//   - *Object: Decoded object, properties in wire order
//   - error: ErrTruncated, ErrUnknownTypeCode, ErrInvalidUTF8, ErrNestingTooDeep,
//     or the read error from r
func Decode(r io.Reader) (*Object, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	d := &decoder{r: br}

	return d.object(0)
}

// DecodeBytes decodes one object from data. Trailing bytes are ignored.
func DecodeBytes(data []byte) (*Object, error) {
	return Decode(bytes.NewReader(data))
}

type decoder struct {
	r       *bufio.Reader
	scratch [9]byte
}

func (d *decoder) read(n int) ([]byte, error) {
	buf := d.scratch[:n]
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errs.ErrTruncated
		}

		return nil, err
	}

	return buf, nil
}

func (d *decoder) count() (int, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errs.ErrTruncated
		}

		return 0, err
	}

	return int(b), nil
}

func (d *decoder) object(depth int) (*Object, error) {
	if depth >= MaxDepth {
		return nil, errs.ErrNestingTooDeep
	}

	count, err := d.count()
	if err != nil {
		return nil, fmt.Errorf("object header: %w", err)
	}

	o := NewObject()
	for i := 0; i < count; i++ {
		head, err := d.read(9)
		if err != nil {
			return nil, fmt.Errorf("object property %d: %w", i, err)
		}
		h := le.Uint64(head[0:8])

		v, err := d.value(Type(head[8]), depth)
		if err != nil {
			return nil, fmt.Errorf("object property %#x: %w", h, err)
		}
		o.RawSet(h, v)
	}

	return o, nil
}

func (d *decoder) array(depth int) (*Array, error) {
	if depth >= MaxDepth {
		return nil, errs.ErrNestingTooDeep
	}

	count, err := d.count()
	if err != nil {
		return nil, fmt.Errorf("array header: %w", err)
	}

	a := &Array{values: make([]Value, 0, count)}
	for i := 0; i < count; i++ {
		code, err := d.count()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}

		v, err := d.value(Type(code), depth)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		a.values = append(a.values, v)
	}

	return a, nil
}

func (d *decoder) value(t Type, depth int) (Value, error) {
	if !t.IsValid() {
		return Value{}, fmt.Errorf("%w: %#x", errs.ErrUnknownTypeCode, uint8(t))
	}

	switch t {
	case TypeNull:
		return Null(), nil
	case TypeString:
		return d.string()
	case TypeArray:
		a, err := d.array(depth + 1)
		if err != nil {
			return Value{}, err
		}

		return Value{typ: TypeArray, arr: a}, nil
	case TypeObject:
		o, err := d.object(depth + 1)
		if err != nil {
			return Value{}, err
		}

		return Value{typ: TypeObject, obj: o}, nil
	}

	size := t.fixedSize()
	b, err := d.read(size)
	if err != nil {
		return Value{}, err
	}

	var bits uint64
	switch size {
	case 1:
		bits = uint64(b[0])
	case 2:
		bits = uint64(le.Uint16(b))
	case 4:
		bits = uint64(le.Uint32(b))
	case 8:
		bits = le.Uint64(b)
	}

	switch t {
	case TypeInt8:
		bits = uint64(int8(b[0]))
	case TypeInt16:
		bits = uint64(int16(le.Uint16(b)))
	case TypeInt32:
		bits = uint64(int32(le.Uint32(b)))
	case TypeBool:
		bits = 0
		if b[0] == 1 {
			bits = 1
		}
	}

	return Value{typ: t, bits: bits}, nil
}

func (d *decoder) string() (Value, error) {
	b, err := d.r.ReadBytes(0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, errs.ErrTruncated
		}

		return Value{}, err
	}

	b = b[:len(b)-1]
	if !utf8.Valid(b) {
		return Value{}, errs.ErrInvalidUTF8
	}

	return String(string(b)), nil
}
