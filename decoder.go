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

// Decoder reads a BPX container.
//
// Construction validates the main header and the whole section header table;
// a Decoder is never returned for a container that fails those checks.
// Sections are decoded on demand with OpenSection.
//
// Note: The Decoder is NOT thread-safe.
type Decoder struct {
	r       io.ReaderAt
	file    *os.File // set when the decoder owns the source
	cfg     *Config
	header  section.MainHeader
	headers []section.Header
}

// NewDecoder reads and validates the header and section table of the container in r.
//
// Returns:
//   - *Decoder: Decoder ready for section queries
//   - error: ErrTruncated, ErrInvalidSignature, ErrUnsupportedVersion,
//     ErrUnsupportedCompression, ErrUnsupportedChecksum or ErrChecksumMismatch
func NewDecoder(r io.ReaderAt, opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	d := &Decoder{r: r, cfg: cfg}
	if err := d.readMainHeader(); err != nil {
		return nil, err
	}
	if err := d.readSectionTable(); err != nil {
		return nil, err
	}

	return d, nil
}

// Open opens and validates the container at path. Close releases the file.
func Open(path string, opts ...Option) (*Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}

	d, err := NewDecoder(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	d.file = f

	return d, nil
}

func (d *Decoder) readMainHeader() error {
	buf := make([]byte, section.MainHeaderSize)
	n, err := d.r.ReadAt(buf, 0)
	if n < section.MainHeaderSize {
		if err == nil || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: main header is %d bytes", errs.ErrTruncated, n)
		}

		return err
	}

	return d.header.Parse(buf)
}

// readSectionTable reads the section headers one by one, rejecting legacy flags
// as they are met, then checks the aggregate checksum.
func (d *Decoder) readSectionTable() error {
	count := int64(d.header.SectionCount)
	table := io.NewSectionReader(d.r, section.MainHeaderSize, count*section.HeaderSize)
	br := bufio.NewReader(table)

	sum := d.header.ComputeChecksum()
	buf := make([]byte, section.HeaderSize)
	d.headers = make([]section.Header, 0, min(count, 1024))

	for i := int64(0); i < count; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: section header %d", errs.ErrTruncated, i)
			}

			return err
		}

		h, err := section.ParseHeader(buf)
		if err != nil {
			return fmt.Errorf("section header %d: %w", i, err)
		}

		sum += checksum.Sum(buf)
		d.headers = append(d.headers, h)
	}

	if sum != d.header.Checksum {
		return fmt.Errorf("%w: header table (got %#x, expected %#x)", errs.ErrChecksumMismatch, sum, d.header.Checksum)
	}

	return nil
}

// MainHeader returns a copy of the main header.
func (d *Decoder) MainHeader() section.MainHeader {
	return d.header
}

// SectionCount returns the number of sections in the container.
func (d *Decoder) SectionCount() int {
	return len(d.headers)
}

// FindSectionByType returns the first section header of type typ.
func (d *Decoder) FindSectionByType(typ format.SectionType) (section.Header, bool) {
	for _, h := range d.headers {
		if h.Type == typ {
			return h, true
		}
	}

	return section.Header{}, false
}

// FindAllSectionsOfType returns every section header of type typ in table order.
func (d *Decoder) FindAllSectionsOfType(typ format.SectionType) []section.Header {
	var out []section.Header
	for _, h := range d.headers {
		if h.Type == typ {
			out = append(out, h)
		}
	}

	return out
}

// FindSectionByIndex returns the section header at index i, if any.
func (d *Decoder) FindSectionByIndex(i int) (section.Header, bool) {
	if i < 0 || i >= len(d.headers) {
		return section.Header{}, false
	}

	return d.headers[i], true
}

// SectionByIndex returns the section header at index i.
// It panics if i is out of range.
func (d *Decoder) SectionByIndex(i int) section.Header {
	if i < 0 || i >= len(d.headers) {
		panic(fmt.Sprintf("bpx: section index %d out of range [0, %d)", i, len(d.headers)))
	}

	return d.headers[i]
}

// OpenSection decodes the section described by h and returns it positioned at
// its start. The caller owns the returned Section and must Close it.
func (d *Decoder) OpenSection(h section.Header) (Section, error) {
	s, err := openSection(d.r, h, d.cfg.tempDir)
	if err != nil {
		return nil, fmt.Errorf("open section at %d: %w", h.Pointer, err)
	}

	d.cfg.logger.Debug("section opened",
		zap.Stringer("type", h.Type),
		zap.Uint32("size", h.Size),
		zap.Uint32("csize", h.CompressedSize),
		zap.Bool("file_backed", s.IsFileBacked()),
	)

	return s, nil
}

// LoadStringSection opens the first string table section.
//
// Returns:
//   - *StringTable: Read-only string table backed by the live section
//   - error: ErrSectionNotFound when the container has no string table, or decode errors
func (d *Decoder) LoadStringSection() (*StringTable, error) {
	h, ok := d.FindSectionByType(format.SectionStringTable)
	if !ok {
		return nil, fmt.Errorf("%w: string table", errs.ErrSectionNotFound)
	}

	s, err := d.OpenSection(h)
	if err != nil {
		return nil, err
	}

	return newCachedStringTable(s), nil
}

// Close releases the source file when the decoder was created with Open.
func (d *Decoder) Close() error {
	if d.file == nil {
		return nil
	}

	err := d.file.Close()
	d.file = nil

	return err
}
