package bpxp

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bpx"
	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/sd"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func randomBytes(n int, seed int64) []byte {
	b := make([]byte, n)
	_, _ = rand.New(rand.NewSource(seed)).Read(b)

	return b
}

func tempOpts(t *testing.T, extra ...Option) []Option {
	return append([]Option{WithContainerOptions(bpx.WithTempDir(t.TempDir()))}, extra...)
}

func TestPackUnpack_Directory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "assets")
	files := map[string][]byte{
		"a.txt":           []byte("hello"),
		"empty.bin":       {},
		"sub/b.bin":       randomBytes(70000, 1),
		"sub/deep/c.json": []byte(`{"k":1}`),
	}
	for name, data := range files {
		writeFile(t, filepath.Join(src, filepath.FromSlash(name)), data)
	}

	pkg := filepath.Join(root, "assets.bpx")
	var packed int64
	enc, err := NewEncoder(pkg, tempOpts(t, WithProgress(func(_ string, n int64) { packed += n }))...)
	require.NoError(t, err)

	ext := TypeExt{Arch: ArchAarch64, Platform: PlatformAndroid, Generator: [2]byte{'C', 'M'}}
	enc.SetTypeExt(ext)
	require.NoError(t, enc.Pack(src))

	meta := sd.NewObject()
	meta.Set("name", sd.String("assets"))
	meta.Set("version", sd.Uint32(2))
	meta.AddDebugInfo()
	require.NoError(t, enc.AddMetadata(meta))
	require.ErrorIs(t, enc.AddMetadata(meta), errs.ErrSectionExists)

	require.NoError(t, enc.Save())
	require.NoError(t, enc.Close())
	require.Equal(t, int64(5+70000+7), packed)

	dec, err := Open(pkg, tempOpts(t)...)
	require.NoError(t, err)
	defer dec.Close()

	require.Equal(t, ext, dec.TypeExt())

	got, err := dec.OpenMetadata()
	require.NoError(t, err)
	require.True(t, meta.Equal(got))

	out := filepath.Join(root, "out")
	require.NoError(t, dec.Unpack(out))

	for name, data := range files {
		content, err := os.ReadFile(filepath.Join(out, "assets", filepath.FromSlash(name)))
		require.NoError(t, err, name)
		require.Equal(t, data, content, name)
	}
}

func TestPackUnpack_SingleFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "file.dat")
	writeFile(t, src, []byte("single"))

	pkg := filepath.Join(root, "single.bpx")
	enc, err := NewEncoder(pkg, tempOpts(t)...)
	require.NoError(t, err)
	require.NoError(t, enc.Pack(src))
	require.NoError(t, enc.Save())
	require.NoError(t, enc.Close())

	dec, err := Open(pkg)
	require.NoError(t, err)
	defer dec.Close()

	_, err = dec.OpenMetadata()
	require.ErrorIs(t, err, errs.ErrSectionNotFound)

	out := filepath.Join(root, "out")
	require.NoError(t, dec.Unpack(out))

	content, err := os.ReadFile(filepath.Join(out, "file.dat"))
	require.NoError(t, err)
	require.Equal(t, "single", string(content))
}

func TestPackUnpack_SplitAcrossSections(t *testing.T) {
	const sectionCap = 4096

	tests := []struct {
		name  string
		sizes []int
	}{
		{"one large file", []int{sectionCap*3 + 100}},
		{"exact fill", []int{sectionCap - recordHeaderSize, 10}},
		{"header does not fit", []int{sectionCap - recordHeaderSize - 5, 3000}},
		{"many files", []int{1000, 2000, 3000, 4000, 5000, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			src := filepath.Join(root, "src")
			var want [][]byte
			for i, size := range tt.sizes {
				data := randomBytes(size, int64(i))
				want = append(want, data)
				writeFile(t, filepath.Join(src, string(rune('a'+i))), data)
			}

			pkg := filepath.Join(root, "split.bpx")
			enc, err := NewEncoder(pkg, tempOpts(t, WithSectionCap(sectionCap))...)
			require.NoError(t, err)
			require.NoError(t, enc.Pack(src))
			require.NoError(t, enc.Save())
			require.NoError(t, enc.Close())

			dec, err := Open(pkg, tempOpts(t)...)
			require.NoError(t, err)
			defer dec.Close()

			var total int64
			for _, s := range tt.sizes {
				total += int64(s) + recordHeaderSize
			}
			sections := dec.Container().FindAllSectionsOfType(format.SectionData)
			require.GreaterOrEqual(t, len(sections), int((total+sectionCap-1)/sectionCap))
			for _, h := range sections {
				require.LessOrEqual(t, int64(h.Size), int64(sectionCap))
			}

			out := filepath.Join(root, "out")
			require.NoError(t, dec.Unpack(out))
			for i := range tt.sizes {
				content, err := os.ReadFile(filepath.Join(out, "src", string(rune('a'+i))))
				require.NoError(t, err)
				require.True(t, bytes.Equal(want[i], content), "file %d", i)
			}
		})
	}
}

func TestOpen_RejectsOtherTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.bpx")
	enc, err := bpx.Create(path)
	require.NoError(t, err)
	enc.SetType('X')
	require.NoError(t, enc.Save())
	require.NoError(t, enc.Close())

	_, err = Open(path)
	require.ErrorIs(t, err, errs.ErrUnknownContainerType)
}

// craftPackage writes a package holding one record named name with content data.
func craftPackage(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crafted.bpx")
	enc, err := bpx.Create(path, bpx.WithTempDir(t.TempDir()))
	require.NoError(t, err)
	defer enc.Close()

	strIdx, err := enc.AddSection(format.SectionStringTable, 0)
	require.NoError(t, err)
	offset, err := bpx.NewStringTable(enc.SectionByIndex(strIdx)).WriteString(name)
	require.NoError(t, err)

	dataIdx, err := enc.AddSection(format.SectionData, 0)
	require.NoError(t, err)

	var head [recordHeaderSize]byte
	binary.LittleEndian.PutUint64(head[0:8], uint64(len(data)))
	binary.LittleEndian.PutUint32(head[8:12], offset)
	_, err = enc.SectionByIndex(dataIdx).Write(append(head[:], data...))
	require.NoError(t, err)

	require.NoError(t, enc.Save())

	return path
}

func TestUnpack_RejectsBadPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty", "", errs.ErrEmptyPath},
		{"parent", "../escape.txt", errs.ErrUnsafePath},
		{"nested parent", "a/../../escape.txt", errs.ErrUnsafePath},
		{"absolute", "/etc/escape.txt", errs.ErrUnsafePath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := craftPackage(t, tt.path, []byte("x"))

			dec, err := Open(pkg)
			require.NoError(t, err)
			defer dec.Close()

			out := t.TempDir()
			require.ErrorIs(t, dec.Unpack(out), tt.want)

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	}
}

func TestUnpack_MissingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bpx")
	enc, err := bpx.Create(path)
	require.NoError(t, err)
	defer enc.Close()

	strIdx, err := enc.AddSection(format.SectionStringTable, 0)
	require.NoError(t, err)
	offset, err := bpx.NewStringTable(enc.SectionByIndex(strIdx)).WriteString("p/f")
	require.NoError(t, err)

	dataIdx, err := enc.AddSection(format.SectionData, 0)
	require.NoError(t, err)
	var head [recordHeaderSize]byte
	binary.LittleEndian.PutUint64(head[0:8], 100)
	binary.LittleEndian.PutUint32(head[8:12], offset)
	_, err = enc.SectionByIndex(dataIdx).Write(append(head[:], "only-some"...))
	require.NoError(t, err)
	require.NoError(t, enc.Save())

	dec, err := Open(path)
	require.NoError(t, err)
	defer dec.Close()

	require.ErrorIs(t, dec.Unpack(t.TempDir()), errs.ErrTruncated)
}

func TestPack_Errors(t *testing.T) {
	enc, err := NewEncoder(filepath.Join(t.TempDir(), "x.bpx"), tempOpts(t)...)
	require.NoError(t, err)
	defer enc.Close()

	require.ErrorIs(t, enc.Pack("/"), errs.ErrEmptyPath)
	require.Error(t, enc.Pack(filepath.Join(t.TempDir(), "missing")))

	_, err = NewEncoder(filepath.Join(t.TempDir(), "y.bpx"), WithSectionCap(recordHeaderSize))
	require.Error(t, err)
}
