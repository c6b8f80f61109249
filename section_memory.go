package bpx

import (
	"fmt"
	"io"

	"github.com/arloliu/bpx/errs"
)

// memorySection keeps the whole payload in a buffer allocated up front.
type memorySection struct {
	buf    []byte
	pos    int64
	size   int64
	closed bool
}

var _ Section = (*memorySection)(nil)

func newMemorySection(capacity int) *memorySection {
	return &memorySection{buf: make([]byte, capacity)}
}

func (s *memorySection) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errs.ErrClosed
	}
	if s.pos >= s.size {
		return 0, io.EOF
	}

	n := copy(p, s.buf[s.pos:s.size])
	s.pos += int64(n)

	return n, nil
}

// Write copies p at the cursor. Writing past the allocated capacity fails
// without writing anything.
func (s *memorySection) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errs.ErrClosed
	}

	end := s.pos + int64(len(p))
	if end > int64(len(s.buf)) {
		return 0, fmt.Errorf("%w: write of %d bytes at %d, capacity %d", errs.ErrSectionFull, len(p), s.pos, len(s.buf))
	}

	copy(s.buf[s.pos:end], p)
	s.pos = end
	if end > s.size {
		s.size = end
	}

	return len(p), nil
}

func (s *memorySection) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, errs.ErrClosed
	}

	pos, err := seekOffset(s.pos, s.size, offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = pos

	return pos, nil
}

func (s *memorySection) Size() int64 {
	return s.size
}

func (s *memorySection) LoadInMemory() ([]byte, error) {
	if s.closed {
		return nil, errs.ErrClosed
	}

	out := make([]byte, s.size)
	copy(out, s.buf[:s.size])

	return out, nil
}

func (s *memorySection) IsFileBacked() bool {
	return false
}

func (s *memorySection) Close() error {
	s.buf = nil
	s.closed = true

	return nil
}
