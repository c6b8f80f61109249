package sd

// Type is the BPXSD type code of a Value.
type Type uint8

const (
	TypeNull   Type = 0x0
	TypeBool   Type = 0x1
	TypeUint8  Type = 0x2
	TypeUint16 Type = 0x3
	TypeUint32 Type = 0x4
	TypeUint64 Type = 0x5
	TypeInt8   Type = 0x6
	TypeInt16  Type = 0x7
	TypeInt32  Type = 0x8
	TypeInt64  Type = 0x9
	TypeFloat  Type = 0xA
	TypeDouble Type = 0xB
	TypeString Type = 0xC
	TypeArray  Type = 0xD
	TypeObject Type = 0xE
)

var typeNames = [...]string{
	TypeNull:   "Null",
	TypeBool:   "Bool",
	TypeUint8:  "Uint8",
	TypeUint16: "Uint16",
	TypeUint32: "Uint32",
	TypeUint64: "Uint64",
	TypeInt8:   "Int8",
	TypeInt16:  "Int16",
	TypeInt32:  "Int32",
	TypeInt64:  "Int64",
	TypeFloat:  "Float",
	TypeDouble: "Double",
	TypeString: "String",
	TypeArray:  "Array",
	TypeObject: "Object",
}

// IsValid reports whether t is a known type code.
func (t Type) IsValid() bool {
	return t <= TypeObject
}

func (t Type) String() string {
	if !t.IsValid() {
		return "Unknown"
	}

	return typeNames[t]
}

// fixedSize returns the encoded size of scalar types, or 0 for Null and the
// variable-length types.
func (t Type) fixedSize() int {
	switch t {
	case TypeBool, TypeUint8, TypeInt8:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat:
		return 4
	case TypeUint64, TypeInt64, TypeDouble:
		return 8
	default:
		return 0
	}
}
