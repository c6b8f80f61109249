package sd

import (
	"fmt"

	"github.com/arloliu/bpx/errs"
)

// DebugSymbols maps property hashes back to names using the debug array stored
// by Object.AddDebugInfo.
type DebugSymbols struct {
	symbols map[uint64]string
}

// LoadDebugSymbols reads the debug array of o. An object without debug info
// yields empty symbols.
//
// Returns:
//   - *DebugSymbols: Symbols found in o
//   - error: ErrInvalidDebugSymbols if DebugKey holds anything but an array of strings
func LoadDebugSymbols(o *Object) (*DebugSymbols, error) {
	ds := &DebugSymbols{symbols: make(map[uint64]string)}

	v, ok := o.Get(DebugKey)
	if !ok {
		return ds, nil
	}

	arr, ok := v.AsArray()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", errs.ErrInvalidDebugSymbols, DebugKey, v.Type())
	}

	for i, e := range arr.values {
		name, ok := e.AsString()
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %s", errs.ErrInvalidDebugSymbols, i, e.Type())
		}
		ds.symbols[Hash(name)] = name
	}

	return ds, nil
}

// Lookup returns the name for hash, or the hash in hexadecimal (e.g. "0xB886B3A")
// when it has no symbol.
func (ds *DebugSymbols) Lookup(hash uint64) string {
	if name, ok := ds.symbols[hash]; ok {
		return name
	}

	return fmt.Sprintf("0x%X", hash)
}

// Len returns the number of known symbols.
func (ds *DebugSymbols) Len() int {
	return len(ds.symbols)
}
