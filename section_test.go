package bpx

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/section"
	"github.com/stretchr/testify/require"
)

func newTestSections(t *testing.T) map[string]Section {
	t.Helper()

	fs, err := newFileSection(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	return map[string]Section{
		"memory": newMemorySection(64 * 1024),
		"file":   fs,
	}
}

func TestSection_ReadWriteSeek(t *testing.T) {
	for name, s := range newTestSections(t) {
		t.Run(name, func(t *testing.T) {
			n, err := s.Write([]byte("hello world"))
			require.NoError(t, err)
			require.Equal(t, 11, n)
			require.Equal(t, int64(11), s.Size())

			pos, err := s.Seek(0, io.SeekStart)
			require.NoError(t, err)
			require.Zero(t, pos)

			buf := make([]byte, 5)
			_, err = io.ReadFull(s, buf)
			require.NoError(t, err)
			require.Equal(t, "hello", string(buf))

			pos, err = s.Seek(1, io.SeekCurrent)
			require.NoError(t, err)
			require.Equal(t, int64(6), pos)

			rest, err := io.ReadAll(s)
			require.NoError(t, err)
			require.Equal(t, "world", string(rest))

			pos, err = s.Seek(-5, io.SeekEnd)
			require.NoError(t, err)
			require.Equal(t, int64(6), pos)

			_, err = s.Seek(-1, io.SeekStart)
			require.Error(t, err)
		})
	}
}

func TestSection_SizeIsHighWaterMark(t *testing.T) {
	for name, s := range newTestSections(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Write(bytes.Repeat([]byte{'a'}, 100))
			require.NoError(t, err)

			_, err = s.Seek(10, io.SeekStart)
			require.NoError(t, err)
			_, err = s.Write([]byte("BBB"))
			require.NoError(t, err)
			require.Equal(t, int64(100), s.Size())

			data, err := s.LoadInMemory()
			require.NoError(t, err)
			require.Len(t, data, 100)
			require.Equal(t, "aBBBa", string(data[9:14]))
		})
	}
}

func TestSection_ReadAtEnd(t *testing.T) {
	for name, s := range newTestSections(t) {
		t.Run(name, func(t *testing.T) {
			n, err := s.Read(make([]byte, 4))
			require.Zero(t, n)
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestMemorySection_Capacity(t *testing.T) {
	s := newMemorySection(8)

	_, err := s.Write([]byte("12345678"))
	require.NoError(t, err)

	n, err := s.Write([]byte("9"))
	require.ErrorIs(t, err, errs.ErrSectionFull)
	require.Zero(t, n)
	require.Equal(t, int64(8), s.Size())
	require.False(t, s.IsFileBacked())

	require.NoError(t, s.Close())
	_, err = s.Read(make([]byte, 1))
	require.ErrorIs(t, err, errs.ErrClosed)
}

func TestFileSection_ReadAhead(t *testing.T) {
	s, err := newFileSection(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	data := bytes.Repeat([]byte("0123456789"), 3000)
	_, err = s.Write(data)
	require.NoError(t, err)

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)

	// Small reads go through the read-ahead buffer.
	small := make([]byte, 7)
	_, err = io.ReadFull(s, small)
	require.NoError(t, err)
	require.Equal(t, data[:7], small)

	// Overwrite bytes already buffered and read them back.
	_, err = s.Seek(2, io.SeekStart)
	require.NoError(t, err)
	_, err = s.Write([]byte("XY"))
	require.NoError(t, err)
	copy(data[2:], "XY")

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err := io.ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestFileSection_CloseRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := newFileSection(dir)
	require.NoError(t, err)
	require.True(t, s.IsFileBacked())

	name := s.file.Name()
	_, err = os.Stat(name)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = os.Stat(name)
	require.True(t, os.IsNotExist(err))

	_, err = s.Write([]byte("x"))
	require.ErrorIs(t, err, errs.ErrClosed)
}

func TestCreateSection_Routing(t *testing.T) {
	tests := []struct {
		name       string
		size       uint32
		fileBacked bool
	}{
		{"unknown size", 0, true},
		{"small", 100, false},
		{"at threshold", section.HugeSectionThreshold, false},
		{"huge", section.HugeSectionThreshold + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createSection(tt.size, t.TempDir())
			require.NoError(t, err)
			defer s.Close()

			require.Equal(t, tt.fileBacked, s.IsFileBacked())
		})
	}
}

func TestWriteSection_Framing(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		flags section.Flag
	}{
		{"empty", 0, section.FlagCheckWeak},
		{"below chunk", section.ChunkSize - 1, section.FlagCheckWeak},
		{"one chunk", section.ChunkSize, section.FlagCheckWeak | section.FlagCompressXZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemorySection(tt.size)
			_, err := s.Write(bytes.Repeat([]byte{3}, tt.size))
			require.NoError(t, err)

			var out bytes.Buffer
			csize, sum, flags, err := writeSection(s, &out, 0)
			require.NoError(t, err)
			require.Equal(t, tt.flags, flags)
			require.Equal(t, int64(out.Len()), csize)
			require.Equal(t, uint32(3*tt.size), sum)
		})
	}
}
