package bpx

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/internal/pool"
)

// fileSection spills its payload to a temporary file and serves small reads
// from a read-ahead buffer.
type fileSection struct {
	file    *os.File
	buf     []byte
	release func()
	bufOff  int64 // file offset of buf[0]
	bufLen  int   // valid bytes in buf
	pos     int64
	size    int64
}

var _ Section = (*fileSection)(nil)

func newFileSection(dir string) (*fileSection, error) {
	f, err := os.CreateTemp(dir, "bpx-section-*")
	if err != nil {
		return nil, fmt.Errorf("create section file: %w", err)
	}

	buf, release := pool.GetReadBuffer()

	return &fileSection{file: f, buf: buf, release: release}, nil
}

func (s *fileSection) Read(p []byte) (int, error) {
	if s.file == nil {
		return 0, errs.ErrClosed
	}
	if s.pos >= s.size {
		return 0, io.EOF
	}

	if remaining := s.size - s.pos; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	if len(p) >= len(s.buf) {
		n, err := s.file.ReadAt(p, s.pos)
		s.pos += int64(n)
		if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
			return n, err
		}

		return n, nil
	}

	if s.pos < s.bufOff || s.pos >= s.bufOff+int64(s.bufLen) {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}

	n := copy(p, s.buf[s.pos-s.bufOff:s.bufLen])
	s.pos += int64(n)

	return n, nil
}

func (s *fileSection) fill() error {
	n, err := s.file.ReadAt(s.buf, s.pos)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if n == 0 {
		return io.ErrUnexpectedEOF
	}

	s.bufOff = s.pos
	s.bufLen = n

	return nil
}

func (s *fileSection) Write(p []byte) (int, error) {
	if s.file == nil {
		return 0, errs.ErrClosed
	}

	n, err := s.file.WriteAt(p, s.pos)
	if n > 0 && s.bufLen > 0 && s.pos < s.bufOff+int64(s.bufLen) && s.pos+int64(n) > s.bufOff {
		s.bufLen = 0
	}
	s.pos += int64(n)
	if s.pos > s.size {
		s.size = s.pos
	}

	return n, err
}

func (s *fileSection) Seek(offset int64, whence int) (int64, error) {
	if s.file == nil {
		return 0, errs.ErrClosed
	}

	pos, err := seekOffset(s.pos, s.size, offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = pos

	return pos, nil
}

func (s *fileSection) Size() int64 {
	return s.size
}

func (s *fileSection) LoadInMemory() ([]byte, error) {
	if s.file == nil {
		return nil, errs.ErrClosed
	}

	out := make([]byte, s.size)
	if _, err := s.file.ReadAt(out, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return out, nil
}

func (s *fileSection) IsFileBacked() bool {
	return true
}

// Close closes and removes the temporary file. It is safe to call more than once.
func (s *fileSection) Close() error {
	if s.file == nil {
		return nil
	}

	name := s.file.Name()
	cerr := s.file.Close()
	rerr := os.Remove(name)
	s.file = nil
	s.release()

	return errors.Join(cerr, rerr)
}
