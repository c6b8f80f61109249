package bpxp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arloliu/bpx"
	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/internal/pool"
	"github.com/arloliu/bpx/sd"
)

// Decoder reads a package container.
//
// Note: The Decoder is NOT thread-safe.
type Decoder struct {
	dec *bpx.Decoder
	cfg *config
}

// Open opens the package at path. Containers of another type are rejected
// with ErrUnknownContainerType.
func Open(path string, opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	dec, err := bpx.Open(path, cfg.containerOptions()...)
	if err != nil {
		return nil, err
	}

	if typ := dec.MainHeader().Type; typ != format.ContainerPackage {
		_ = dec.Close()
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownContainerType, rune(typ))
	}

	return &Decoder{dec: dec, cfg: cfg}, nil
}

// Container returns the underlying container decoder.
func (d *Decoder) Container() *bpx.Decoder {
	return d.dec
}

// TypeExt returns the decoded type extension of the package.
func (d *Decoder) TypeExt() TypeExt {
	return ParseTypeExt(d.dec.MainHeader().TypeExt)
}

// OpenMetadata decodes the metadata object.
//
// Returns:
//   - *sd.Object: Decoded metadata
//   - error: ErrSectionNotFound when the package has no metadata, or decode errors
func (d *Decoder) OpenMetadata() (*sd.Object, error) {
	h, ok := d.dec.FindSectionByType(format.SectionMetadata)
	if !ok {
		return nil, fmt.Errorf("%w: metadata", errs.ErrSectionNotFound)
	}

	s, err := d.dec.OpenSection(h)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	o, err := sd.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	return o, nil
}

// carry is the file left incomplete at the end of a data section.
type carry struct {
	name      string
	remaining int64
	dst       *os.File
}

func (c *carry) active() bool {
	return c.dst != nil
}

func (c *carry) close() error {
	if c.dst == nil {
		return nil
	}

	err := c.dst.Close()
	*c = carry{}

	return err
}

// Unpack extracts every packed file below target, creating directories on demand.
//
// Data sections are processed in table order. A file whose content runs past
// the end of a section is kept open and completed from the start of the next
// one.
func (d *Decoder) Unpack(target string) (err error) {
	names, err := d.dec.LoadStringSection()
	if err != nil {
		return err
	}
	defer names.Close()

	var c carry
	defer func() {
		err = errors.Join(err, c.close())
	}()

	for _, h := range d.dec.FindAllSectionsOfType(format.SectionData) {
		s, err := d.dec.OpenSection(h)
		if err != nil {
			return err
		}

		err = d.unpackSection(s, names, target, &c)
		if cerr := s.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}

	if c.active() {
		return fmt.Errorf("%w: %s is missing %d bytes", errs.ErrTruncated, c.name, c.remaining)
	}

	return nil
}

func (d *Decoder) unpackSection(s bpx.Section, names *bpx.StringTable, target string, c *carry) error {
	size := s.Size()
	var pos int64

	if c.active() {
		n := min(c.remaining, size)
		if err := d.copyContent(c.dst, s, n, c.name); err != nil {
			return err
		}
		pos += n
		c.remaining -= n
		if c.remaining > 0 {
			return nil
		}
		if err := c.close(); err != nil {
			return err
		}
	}

	var head [recordHeaderSize]byte
	for pos < size {
		if size-pos < recordHeaderSize {
			return fmt.Errorf("%w: %d trailing bytes in data section", errs.ErrCorruptData, size-pos)
		}
		if _, err := io.ReadFull(s, head[:]); err != nil {
			return err
		}
		pos += recordHeaderSize

		fileSize := int64(binary.LittleEndian.Uint64(head[0:8]))
		name, err := names.ReadString(binary.LittleEndian.Uint32(head[8:12]))
		if err != nil {
			return fmt.Errorf("record path: %w", err)
		}
		if name == "" {
			return fmt.Errorf("%w: refusing to write to the extraction root", errs.ErrEmptyPath)
		}
		if fileSize < 0 {
			return fmt.Errorf("%w: %s has size %d", errs.ErrCorruptData, name, fileSize)
		}

		dest, err := safeJoin(target, name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}

		f, err := os.Create(dest)
		if err != nil {
			return err
		}

		d.cfg.logger.Debug("unpacking file", zap.String("name", name), zap.Int64("size", fileSize))

		n := min(fileSize, size-pos)
		if err := d.copyContent(f, s, n, name); err != nil {
			_ = f.Close()
			return err
		}
		pos += n

		if n < fileSize {
			*c = carry{name: name, remaining: fileSize - n, dst: f}
			return nil
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

func (d *Decoder) copyContent(dst io.Writer, src io.Reader, n int64, name string) error {
	buf, cleanup := pool.GetChunk()
	defer cleanup()

	for n > 0 {
		chunk := min(int64(len(buf)), n)
		if _, err := io.ReadFull(src, buf[:chunk]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: content of %s", errs.ErrTruncated, name)
			}

			return err
		}
		if _, err := dst.Write(buf[:chunk]); err != nil {
			return err
		}

		d.cfg.progress(name, chunk)
		n -= chunk
	}

	return nil
}

// safeJoin resolves a packed entry name below target, rejecting absolute names
// and names that climb out of it.
func safeJoin(target, name string) (string, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", errs.ErrUnsafePath, name)
	}

	return filepath.Join(target, rel), nil
}

// Close releases the package file.
func (d *Decoder) Close() error {
	return d.dec.Close()
}
