// Package sd implements BPXSD, the BPX structured data format.
//
// A BPXSD document is an Object: an unordered set of properties keyed by the
// 64-bit DJB2 hash of their name. Values are one of fifteen types, identified on
// the wire by a single type code:
//
//	0x0 Null     0x5 Uint64   0xA Float (float32)
//	0x1 Bool     0x6 Int8     0xB Double (float64)
//	0x2 Uint8    0x7 Int16    0xC String (NUL-terminated UTF-8)
//	0x3 Uint16   0x8 Int32    0xD Array
//	0x4 Uint32   0x9 Int64    0xE Object
//
// Binary layout, little-endian:
//
//	Object: [count u8] then count × [hash u64][code u8][value]
//	Array:  [count u8] then count × [code u8][value]
//
// Because counts are a single byte, objects and arrays hold at most 255 values;
// Encode fails with errs.ErrTooManyValues beyond that.
//
// Property names are not stored. Calling Object.AddDebugInfo before encoding
// stores every name set so far in an array under the reserved "__debug__"
// property, which DebugSymbols uses to map hashes back to names.
//
// # Basic Usage
//
//	obj := sd.NewObject()
//	obj.Set("name", sd.String("demo"))
//	obj.Set("version", sd.Uint32(3))
//	obj.AddDebugInfo()
//
//	var buf bytes.Buffer
//	if err := sd.Encode(&buf, obj); err != nil {
//	    return err
//	}
//
//	decoded, err := sd.Decode(&buf)
//	if err != nil {
//	    return err
//	}
//	v, _ := decoded.Get("version")
//	ver, _ := v.AsUint32()
package sd
