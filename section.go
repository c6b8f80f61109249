package bpx

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/bpx/compress"
	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/section"
)

// Section is the decoded payload of one container section.
//
// A Section behaves like a file: reads and writes share one cursor, and Size
// reports the write high-water mark. Seeking backwards and rewriting never
// shrinks it. Close releases the backing store; for file-backed sections the
// temporary file is removed.
type Section interface {
	io.ReadWriteSeeker
	io.Closer

	// Size returns the logical size of the section.
	Size() int64
	// LoadInMemory returns the whole content regardless of the cursor position.
	LoadInMemory() ([]byte, error)
	// IsFileBacked reports whether the section spills to a temporary file.
	IsFileBacked() bool
}

// createSection chooses the backing store of a new section. Unknown (zero) and
// huge expected sizes get a temporary file, anything else a memory buffer of
// exactly the expected size.
func createSection(expectedSize uint32, tempDir string) (Section, error) {
	if expectedSize == 0 || expectedSize > section.HugeSectionThreshold {
		return newFileSection(tempDir)
	}

	return newMemorySection(int(expectedSize)), nil
}

// openSection decodes the section described by h from r.
//
// The payload is decompressed (or copied) into a backing store chosen by its
// logical size, then its length and weak checksum are verified. On error the
// partially filled section is released.
func openSection(r io.ReaderAt, h section.Header, tempDir string) (Section, error) {
	var (
		s   Section
		err error
	)
	if h.IsHuge() {
		s, err = newFileSection(tempDir)
		if err != nil {
			return nil, err
		}
	} else {
		s = newMemorySection(int(h.Size))
	}

	if err := fillSection(r, h, s); err != nil {
		_ = s.Close()
		return nil, err
	}

	if _, err := s.Seek(0, io.SeekStart); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

func fillSection(r io.ReaderAt, h section.Header, s Section) error {
	var (
		sum uint32
		n   int64
		err error
	)
	if h.Flags.IsCompressed() {
		src := io.NewSectionReader(r, int64(h.Pointer), int64(h.CompressedSize))
		dst := &boundedWriter{w: s, remaining: int64(h.Size)}
		sum, n, err = compress.Unblock(src, dst, int64(h.CompressedSize))
	} else {
		src := io.NewSectionReader(r, int64(h.Pointer), int64(h.Size))
		sum, err = compress.Copy(src, s, int64(h.Size))
		n = int64(h.Size)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: section payload at %d", errs.ErrTruncated, h.Pointer)
		}
	}
	if err != nil {
		return err
	}

	if n != int64(h.Size) {
		return fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrCorruptData, n, h.Size)
	}

	if h.Flags.HasWeakChecksum() && sum != h.Checksum {
		return fmt.Errorf("%w: section payload (got %#x, expected %#x)", errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	return nil
}

// boundedWriter stops a decompressed payload at its declared size, so a
// corrupt stream cannot expand into the backing store.
type boundedWriter struct {
	w         io.Writer
	remaining int64
}

func (b *boundedWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > b.remaining {
		return 0, fmt.Errorf("%w: payload larger than declared size", errs.ErrCorruptData)
	}

	n, err := b.w.Write(p)
	b.remaining -= int64(n)

	return n, err
}

// writeSection frames the content of s into w. Sections smaller than one
// compression chunk are stored raw.
//
// Returns:
//   - int64: Number of bytes written to w
//   - uint32: Weak checksum of the logical content
//   - section.Flag: Flags describing the framing
//   - error: I/O or compression error
func writeSection(s Section, w io.Writer, preset int) (int64, uint32, section.Flag, error) {
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return 0, 0, 0, err
	}

	size := s.Size()
	if size < section.ChunkSize {
		sum, err := compress.Copy(s, w, size)
		if err != nil {
			return 0, 0, 0, err
		}

		return size, sum, section.FlagCheckWeak, nil
	}

	csize, sum, err := compress.Block(s, w, size, preset)
	if err != nil {
		return 0, 0, 0, err
	}

	return csize, sum, section.FlagCheckWeak | section.FlagCompressXZ, nil
}

// seekOffset resolves a Seek call against the current cursor and logical size.
func seekOffset(pos, size, offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = pos + offset
	case io.SeekEnd:
		abs = size + offset
	default:
		return 0, fmt.Errorf("bpx: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("bpx: negative seek position %d", abs)
	}

	return abs, nil
}
