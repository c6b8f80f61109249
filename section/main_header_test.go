package section

import (
	"testing"

	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/internal/checksum"
	"github.com/stretchr/testify/require"
)

func TestNewMainHeader(t *testing.T) {
	header := NewMainHeader('P')

	require.Equal(t, format.ContainerPackage, header.Type)
	require.Equal(t, uint32(Version), header.Version)
	require.Equal(t, uint64(MainHeaderSize), header.FileSize)
	require.Zero(t, header.SectionCount)
}

func TestMainHeader_Parse(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		original := NewMainHeader('P')
		original.Checksum = 0xDEADBEEF
		original.FileSize = 12345
		original.SectionCount = 3
		original.TypeExt[0] = 1
		original.TypeExt[15] = 0xFF

		parsed := MainHeader{}
		err := parsed.Parse(original.Bytes())

		require.NoError(t, err)
		require.Equal(t, original, parsed)
	})

	t.Run("Invalid size", func(t *testing.T) {
		header := &MainHeader{}
		err := header.Parse([]byte{'B', 'P', 'X'})

		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Invalid signature", func(t *testing.T) {
		data := NewMainHeader('P').Bytes()
		data[1] = 'Q'

		header := &MainHeader{}
		err := header.Parse(data)

		require.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("Unsupported version", func(t *testing.T) {
		original := NewMainHeader('P')
		original.Version = 2

		header := &MainHeader{}
		err := header.Parse(original.Bytes())

		require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	})
}

func TestMainHeader_Bytes(t *testing.T) {
	header := NewMainHeader('P')
	header.Checksum = 0x04030201
	header.SectionCount = 2

	data := header.Bytes()

	require.Len(t, data, MainHeaderSize)
	require.Equal(t, []byte("BPXP"), data[0:4])
	require.Equal(t, []byte{1, 2, 3, 4}, data[4:8])
	require.Equal(t, byte(MainHeaderSize), data[8])
	require.Equal(t, byte(2), data[16])
	require.Equal(t, byte(1), data[20])
}

func TestMainHeader_ComputeChecksum(t *testing.T) {
	header := NewMainHeader('P')
	base := header.ComputeChecksum()

	require.Equal(t, checksum.Sum(header.Bytes()), base)

	header.Checksum = 0xFFFFFFFF
	require.Equal(t, base, header.ComputeChecksum(), "checksum field is excluded")

	header.SectionCount++
	require.Equal(t, base+1, header.ComputeChecksum())
}

func TestParseMainHeader(t *testing.T) {
	data := append(NewMainHeader('X').Bytes(), 0xAA, 0xBB)

	header, err := ParseMainHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.ContainerType('X'), header.Type)

	_, err = ParseMainHeader(data[:10])
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}
