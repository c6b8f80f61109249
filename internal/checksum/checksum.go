// Package checksum implements the weak additive checksum used by BPX.
//
// The checksum is the sum of all byte values, wrapping at 2^32. It detects
// accidental single byte changes but is not collision resistant.
package checksum

// Sum returns the weak checksum of b.
func Sum(b []byte) uint32 {
	var sum uint32
	for _, c := range b {
		sum += uint32(c)
	}

	return sum
}

// Weak accumulates a checksum over a stream of writes.
// The zero value is ready to use.
type Weak struct {
	sum uint32
}

// Write adds p to the running checksum. It never fails.
func (w *Weak) Write(p []byte) (int, error) {
	w.sum += Sum(p)
	return len(p), nil
}

// Add adds a precomputed checksum, wrapping on overflow.
func (w *Weak) Add(sum uint32) {
	w.sum += sum
}

// Sum32 returns the current checksum.
func (w *Weak) Sum32() uint32 {
	return w.sum
}

// Reset clears the running checksum.
func (w *Weak) Reset() {
	w.sum = 0
}
