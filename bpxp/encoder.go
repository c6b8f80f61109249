package bpxp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arloliu/bpx"
	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/internal/pool"
	"github.com/arloliu/bpx/sd"
)

// Encoder packs file trees into a package container.
//
// Note: The Encoder is NOT thread-safe.
type Encoder struct {
	enc     *bpx.Encoder
	cfg     *config
	strings *bpx.StringTable
	data    bpx.Section // current data section, nil before the first Pack
}

// NewEncoder creates the package file at path.
func NewEncoder(path string, opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	enc, err := bpx.Create(path, cfg.containerOptions()...)
	if err != nil {
		return nil, err
	}
	enc.SetType(format.ContainerPackage)

	return &Encoder{enc: enc, cfg: cfg}, nil
}

// SetTypeExt sets the architecture, platform and generator of the package.
func (e *Encoder) SetTypeExt(ext TypeExt) {
	e.enc.SetTypeExt(ext.Bytes())
}

// Pack adds source, a regular file or a directory, to the package.
//
// A directory is walked recursively in lexical order; only regular files are
// packed. Entry names start with the base name of source. Every call starts a
// new data section.
func (e *Encoder) Pack(source string) error {
	base := filepath.Base(filepath.Clean(source))
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return fmt.Errorf("%w: cannot derive an entry name from %q", errs.ErrEmptyPath, source)
	}

	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	if err := e.ensureStrings(); err != nil {
		return err
	}
	if err := e.nextDataSection(); err != nil {
		return err
	}

	if !info.IsDir() {
		return e.packFile(source, base)
	}

	return filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			e.cfg.logger.Debug("skipping non-regular file", zap.String("path", path))
			return nil
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		return e.packFile(path, base+"/"+filepath.ToSlash(rel))
	})
}

func (e *Encoder) ensureStrings() error {
	if e.strings != nil {
		return nil
	}

	idx, ok := e.enc.FindSectionByType(format.SectionStringTable)
	if !ok {
		var err error
		idx, err = e.enc.AddSection(format.SectionStringTable, 0)
		if err != nil {
			return err
		}
	}
	e.strings = bpx.NewStringTable(e.enc.SectionByIndex(idx))

	return nil
}

func (e *Encoder) nextDataSection() error {
	idx, err := e.enc.AddSection(format.SectionData, 0)
	if err != nil {
		return err
	}
	e.data = e.enc.SectionByIndex(idx)

	return nil
}

// room returns the number of bytes the current data section can still take.
func (e *Encoder) room() int64 {
	return e.cfg.sectionCap - e.data.Size()
}

func (e *Encoder) packFile(path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()

	offset, err := e.strings.WriteString(name)
	if err != nil {
		return err
	}

	if e.room() < recordHeaderSize {
		if err := e.nextDataSection(); err != nil {
			return err
		}
	}

	var head [recordHeaderSize]byte
	binary.LittleEndian.PutUint64(head[0:8], uint64(size))
	binary.LittleEndian.PutUint32(head[8:12], offset)
	if _, err := e.data.Write(head[:]); err != nil {
		return fmt.Errorf("write record %s: %w", name, err)
	}

	e.cfg.logger.Debug("packing file", zap.String("name", name), zap.Int64("size", size))

	buf, cleanup := pool.GetChunk()
	defer cleanup()

	for remaining := size; remaining > 0; {
		if e.room() == 0 {
			if err := e.nextDataSection(); err != nil {
				return err
			}
		}

		n := min(int64(len(buf)), remaining, e.room())
		if _, err := io.ReadFull(f, buf[:n]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%s: file shrank while packing: %w", path, io.ErrUnexpectedEOF)
			}

			return err
		}
		if _, err := e.data.Write(buf[:n]); err != nil {
			return fmt.Errorf("write record %s: %w", name, err)
		}

		e.cfg.progress(name, n)
		remaining -= n
	}

	return nil
}

// AddMetadata stores o in the metadata section. A package holds at most one
// metadata object.
func (e *Encoder) AddMetadata(o *sd.Object) error {
	if _, ok := e.enc.FindSectionByType(format.SectionMetadata); ok {
		return fmt.Errorf("%w: metadata", errs.ErrSectionExists)
	}

	var buf bytes.Buffer
	if err := sd.Encode(&buf, o); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	idx, err := e.enc.AddSection(format.SectionMetadata, uint32(buf.Len()))
	if err != nil {
		return err
	}

	_, err = e.enc.SectionByIndex(idx).Write(buf.Bytes())

	return err
}

// Save writes the package file. See bpx.Encoder.Save.
func (e *Encoder) Save() error {
	return e.enc.Save()
}

// Close releases every section and the package file.
func (e *Encoder) Close() error {
	return e.enc.Close()
}
