package sd

// ToNative converts o into plain Go values suitable for YAML or JSON encoding.
//
// Property names are resolved through debug symbols; unnamed properties use the
// hexadecimal hash as key. The debug array itself is omitted. Scalars keep their
// Go type, arrays become []any and nested objects map[string]any.
func ToNative(o *Object) (map[string]any, error) {
	syms, err := LoadDebugSymbols(o)
	if err != nil {
		return nil, err
	}

	debugHash := Hash(DebugKey)
	out := make(map[string]any, len(o.keys))
	for _, h := range o.keys {
		if h == debugHash {
			continue
		}

		v, err := toNative(o.props[h])
		if err != nil {
			return nil, err
		}
		out[syms.Lookup(h)] = v
	}

	return out, nil
}

func toNative(v Value) (any, error) {
	switch v.typ {
	case TypeNull:
		return nil, nil
	case TypeBool:
		b, _ := v.AsBool()
		return b, nil
	case TypeUint8:
		n, _ := v.AsUint8()
		return n, nil
	case TypeUint16:
		n, _ := v.AsUint16()
		return n, nil
	case TypeUint32:
		n, _ := v.AsUint32()
		return n, nil
	case TypeUint64:
		return v.bits, nil
	case TypeInt8:
		n, _ := v.AsInt8()
		return n, nil
	case TypeInt16:
		n, _ := v.AsInt16()
		return n, nil
	case TypeInt32:
		n, _ := v.AsInt32()
		return n, nil
	case TypeInt64:
		n, _ := v.AsInt64()
		return n, nil
	case TypeFloat:
		f, _ := v.AsFloat()
		return f, nil
	case TypeDouble:
		f, _ := v.AsDouble()
		return f, nil
	case TypeString:
		return v.str, nil
	case TypeArray:
		out := make([]any, 0, v.arr.Len())
		for _, e := range v.arr.values {
			n, err := toNative(e)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}

		return out, nil
	default:
		return ToNative(v.obj)
	}
}
