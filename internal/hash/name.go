package hash

// djb2Seed is the initial value of the DJB2 rolling hash.
const djb2Seed = 5381

// Name computes the 64-bit DJB2 hash of a property name: h = h*33 + c for every
// byte, wrapping on overflow.
func Name(name string) uint64 {
	h := uint64(djb2Seed)
	for i := 0; i < len(name); i++ {
		h = h*33 + uint64(name[i])
	}

	return h
}
