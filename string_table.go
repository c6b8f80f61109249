package bpx

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arloliu/bpx/errs"
)

// stringCacheSize bounds the number of decoded strings kept per table.
const stringCacheSize = 1024

// StringTable stores NUL-terminated UTF-8 strings in a section and addresses
// them by byte offset.
//
// Offsets are not validated: reading at an offset inside a string returns its tail.
type StringTable struct {
	s     Section
	cache *lru.Cache[uint32, string]
}

// NewStringTable wraps s, typically a section of type format.SectionStringTable.
func NewStringTable(s Section) *StringTable {
	return &StringTable{s: s}
}

// newCachedStringTable wraps a decoded section whose content will not change.
func newCachedStringTable(s Section) *StringTable {
	cache, err := lru.New[uint32, string](stringCacheSize)
	if err != nil {
		panic(fmt.Sprintf("bpx: string cache: %v", err))
	}

	return &StringTable{s: s, cache: cache}
}

// Section returns the underlying section.
func (t *StringTable) Section() Section {
	return t.s
}

// WriteString appends str followed by a NUL byte.
//
// Returns:
//   - uint32: Offset of the string, i.e. the table size before the write
//   - error: ErrInvalidString if str contains a NUL byte, ErrInvalidUTF8,
//     ErrSectionTooLarge if the offset does not fit 32 bits, or write errors
func (t *StringTable) WriteString(str string) (uint32, error) {
	if i := strings.IndexByte(str, 0); i >= 0 {
		return 0, fmt.Errorf("%w: at byte %d", errs.ErrInvalidString, i)
	}
	if !utf8.ValidString(str) {
		return 0, errs.ErrInvalidUTF8
	}

	offset, err := t.s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if offset > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: string table offset %d", errs.ErrSectionTooLarge, offset)
	}

	buf := make([]byte, len(str)+1)
	copy(buf, str)
	if _, err := t.s.Write(buf); err != nil {
		return 0, fmt.Errorf("write string: %w", err)
	}

	return uint32(offset), nil
}

// ReadString returns the string starting at offset. The string ends at the
// first NUL byte or at the end of the table.
//
// Returns:
//   - string: Decoded string
//   - error: ErrTruncated when offset is past the end, ErrInvalidUTF8, or read errors
func (t *StringTable) ReadString(offset uint32) (string, error) {
	if t.cache != nil {
		if str, ok := t.cache.Get(offset); ok {
			return str, nil
		}
	}

	if int64(offset) >= t.s.Size() {
		return "", fmt.Errorf("%w: string offset %d, table size %d", errs.ErrTruncated, offset, t.s.Size())
	}
	if _, err := t.s.Seek(int64(offset), io.SeekStart); err != nil {
		return "", err
	}

	var (
		out   []byte
		chunk [64]byte
	)
	for {
		n, err := t.s.Read(chunk[:])
		if i := bytes.IndexByte(chunk[:n], 0); i >= 0 {
			out = append(out, chunk[:i]...)
			break
		}
		out = append(out, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: string at offset %d", errs.ErrInvalidUTF8, offset)
	}

	str := string(out)
	if t.cache != nil {
		t.cache.Add(offset, str)
	}

	return str, nil
}

// Close closes the underlying section.
func (t *StringTable) Close() error {
	return t.s.Close()
}
