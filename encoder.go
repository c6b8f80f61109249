package bpx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/internal/checksum"
	"github.com/arloliu/bpx/section"
)

// Encoder builds a BPX container.
//
// Sections are added with AddSection and filled through the Section returned by
// SectionByIndex. Save frames every section and writes the container once.
//
// Note: The Encoder is NOT thread-safe.
//
// Note: The Encoder is NOT reusable. A second call to Save returns ErrAlreadySaved.
type Encoder struct {
	w        io.Writer
	file     *os.File // set when the encoder owns the destination
	cfg      *Config
	header   section.MainHeader
	headers  []section.Header
	sections []Section
	saved    bool
	closed   bool
}

// NewEncoder creates an encoder writing the container to w on Save.
// The container type defaults to format.ContainerPackage.
func NewEncoder(w io.Writer, opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		w:      w,
		cfg:    cfg,
		header: section.NewMainHeader(format.ContainerPackage),
	}, nil
}

// Create creates (or truncates) the file at path and returns an encoder writing to it.
// Close releases the file.
func Create(path string, opts ...Option) (*Encoder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}

	enc, err := NewEncoder(f, opts...)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return nil, err
	}
	enc.file = f

	return enc, nil
}

// SetType sets the container type tag of the main header.
func (e *Encoder) SetType(typ format.ContainerType) {
	e.header.Type = typ
}

// SetTypeExt sets the type specific extension block of the main header.
func (e *Encoder) SetTypeExt(ext [section.TypeExtSize]byte) {
	e.header.TypeExt = ext
}

// Header returns a copy of the main header. Checksum and FileSize are only
// meaningful after Save.
func (e *Encoder) Header() section.MainHeader {
	return e.header
}

// AddSection appends a section of the given type.
//
// expectedSize sizes the backing store: 0 means unknown and, like sizes above
// the huge-section threshold, selects a temporary file; otherwise a memory
// buffer of exactly expectedSize bytes is allocated and writes past it fail.
//
// Returns:
//   - int: Stable index of the new section, for SectionByIndex
//   - error: ErrAlreadySaved, ErrClosed, or temporary file creation errors
func (e *Encoder) AddSection(typ format.SectionType, expectedSize uint32) (int, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}

	s, err := createSection(expectedSize, e.cfg.tempDir)
	if err != nil {
		return 0, err
	}

	e.headers = append(e.headers, section.NewHeader(typ, expectedSize))
	e.sections = append(e.sections, s)
	e.header.SectionCount = uint32(len(e.headers))

	return len(e.sections) - 1, nil
}

// SectionByIndex returns the writable section at index i.
// It panics if i is out of range.
func (e *Encoder) SectionByIndex(i int) Section {
	if i < 0 || i >= len(e.sections) {
		panic(fmt.Sprintf("bpx: section index %d out of range [0, %d)", i, len(e.sections)))
	}

	return e.sections[i]
}

// FindSectionByType returns the index of the first section of type typ.
func (e *Encoder) FindSectionByType(typ format.SectionType) (int, bool) {
	for i, h := range e.headers {
		if h.Type == typ {
			return i, true
		}
	}

	return 0, false
}

// SectionCount returns the number of sections added so far.
func (e *Encoder) SectionCount() int {
	return len(e.sections)
}

// Save writes the container.
//
// Every section is framed into a temporary spill file while section headers and
// their checksums are accumulated; the main header, the section header table and
// the spill file are then written to the destination in that order.
//
// A section whose logical or stored size does not fit 32 bits aborts the save
// with ErrSectionTooLarge. Save may only be called once.
func (e *Encoder) Save() error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	e.saved = true

	spill, err := os.CreateTemp(e.cfg.tempDir, "bpx-spill-*")
	if err != nil {
		return fmt.Errorf("create spill file: %w", err)
	}
	defer func() {
		_ = spill.Close()
		_ = os.Remove(spill.Name())
	}()

	total, sumSHT, err := e.frameSections(spill)
	if err != nil {
		return err
	}

	count := uint64(len(e.headers))
	e.header.SectionCount = uint32(count)
	e.header.FileSize = uint64(total) + count*section.HeaderSize + section.MainHeaderSize
	e.header.Checksum = 0
	e.header.Checksum = sumSHT + e.header.ComputeChecksum()

	bw := bufio.NewWriter(e.w)
	if _, err := bw.Write(e.header.Bytes()); err != nil {
		return fmt.Errorf("write main header: %w", err)
	}
	for i := range e.headers {
		if _, err := bw.Write(e.headers[i].Bytes()); err != nil {
			return fmt.Errorf("write section header %d: %w", i, err)
		}
	}

	if _, err := spill.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(bw, spill, total); err != nil {
		return fmt.Errorf("write section data: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	e.cfg.logger.Debug("container saved",
		zap.Stringer("type", e.header.Type),
		zap.Uint32("sections", e.header.SectionCount),
		zap.Uint64("file_size", e.header.FileSize),
	)

	return nil
}

// frameSections writes every section payload to w and fills in the section headers.
//
// Returns:
//   - int64: Total number of payload bytes written
//   - uint32: Sum of the section header checksums
//   - error: ErrSectionTooLarge, I/O or compression errors
func (e *Encoder) frameSections(w io.Writer) (int64, uint32, error) {
	var (
		total  int64
		sumSHT checksum.Weak
	)
	ptr := uint64(section.MainHeaderSize) + uint64(len(e.headers))*section.HeaderSize

	for i, s := range e.sections {
		if s.Size() > section.MaxSectionSize {
			return 0, 0, fmt.Errorf("%w: section %d has %d bytes", errs.ErrSectionTooLarge, i, s.Size())
		}

		csize, sum, flags, err := writeSection(s, w, e.cfg.preset)
		if err != nil {
			return 0, 0, fmt.Errorf("write section %d: %w", i, err)
		}
		if csize > section.MaxSectionSize {
			return 0, 0, fmt.Errorf("%w: section %d compresses to %d bytes", errs.ErrSectionTooLarge, i, csize)
		}

		h := &e.headers[i]
		h.Pointer = ptr
		h.CompressedSize = uint32(csize)
		h.Size = uint32(s.Size())
		h.Checksum = sum
		h.Flags = flags

		e.cfg.logger.Debug("section framed",
			zap.Int("index", i),
			zap.Stringer("type", h.Type),
			zap.Uint32("size", h.Size),
			zap.Uint32("csize", h.CompressedSize),
			zap.Stringer("flags", h.Flags),
		)

		ptr += uint64(csize)
		total += csize
		sumSHT.Add(h.ComputeChecksum())
	}

	return total, sumSHT.Sum32(), nil
}

func (e *Encoder) checkOpen() error {
	if e.closed {
		return errs.ErrClosed
	}
	if e.saved {
		return errs.ErrAlreadySaved
	}

	return nil
}

// Close releases every section and, when the encoder was created with Create,
// the destination file. It does not save.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errList []error
	for _, s := range e.sections {
		errList = append(errList, s.Close())
	}
	if e.file != nil {
		errList = append(errList, e.file.Close())
	}

	return errors.Join(errList...)
}
