package sd

import (
	"fmt"
	"io"
	"strings"
)

// Print writes a human readable, tab-indented rendering of o to w.
//
// Property names are resolved through the debug symbols of each object, so
// objects without debug info show hashes. Numbers are prefixed with their type:
//
//	{
//		 name: demo
//		 size: (Uint64) 1024
//		 tags: [
//			 (Uint8) 1
//		]
//	}
func Print(w io.Writer, o *Object) error {
	p := &printer{w: w}
	if err := p.object(1, o); err != nil {
		return err
	}

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) object(layer int, o *Object) error {
	syms, err := LoadDebugSymbols(o)
	if err != nil {
		return err
	}

	prefix := strings.Repeat("\t", layer)
	p.printf("{\n")
	for _, h := range o.keys {
		p.printf("%s %s: ", prefix, syms.Lookup(h))
		if err := p.value(layer, o.props[h]); err != nil {
			return err
		}
	}
	p.printf("%s}\n", prefix[1:])

	return nil
}

func (p *printer) array(layer int, a *Array) error {
	prefix := strings.Repeat("\t", layer)
	p.printf("[\n")
	for _, v := range a.values {
		p.printf("%s ", prefix)
		if err := p.value(layer, v); err != nil {
			return err
		}
	}
	p.printf("%s]\n", prefix[1:])

	return nil
}

func (p *printer) value(layer int, v Value) error {
	switch v.typ {
	case TypeNull:
		p.printf("NULL\n")
	case TypeBool:
		b, _ := v.AsBool()
		p.printf("%t\n", b)
	case TypeString:
		p.printf("%s\n", v.str)
	case TypeArray:
		return p.array(layer+1, v.arr)
	case TypeObject:
		return p.object(layer+1, v.obj)
	default:
		p.printf("(%s) %s\n", v.typ, formatScalar(v))
	}

	return nil
}

func formatScalar(v Value) string {
	switch v.typ {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return fmt.Sprint(int64(v.bits))
	case TypeFloat:
		f, _ := v.AsFloat()
		return fmt.Sprint(f)
	case TypeDouble:
		f, _ := v.AsDouble()
		return fmt.Sprint(f)
	default:
		return fmt.Sprint(v.bits)
	}
}
