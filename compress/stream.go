package compress

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/internal/checksum"
	"github.com/arloliu/bpx/internal/pool"
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// Block compresses exactly size bytes read from r into w as one xz stream
// using the given preset (0-9).
//
// The input is consumed in 64 KiB chunks. The returned checksum covers the
// uncompressed bytes and the returned size counts the compressed bytes written.
//
// Returns:
//   - int64: Number of compressed bytes written to w
//   - uint32: Weak checksum of the size bytes read from r
//   - error: io.ErrUnexpectedEOF if r holds fewer than size bytes, or I/O and encoder errors
func Block(r io.Reader, w io.Writer, size int64, preset int) (int64, uint32, error) {
	cw := &countingWriter{w: w}
	zw, err := newStreamWriter(cw, preset)
	if err != nil {
		return 0, 0, fmt.Errorf("create xz stream: %w", err)
	}

	buf, cleanup := pool.GetChunk()
	defer cleanup()

	var sum checksum.Weak
	for remaining := size; remaining > 0; {
		n := min(int64(len(buf)), remaining)
		if _, err := io.ReadFull(r, buf[:n]); err != nil {
			_ = zw.Close()
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return 0, 0, err
		}

		_, _ = sum.Write(buf[:n])
		if _, err := zw.Write(buf[:n]); err != nil {
			_ = zw.Close()
			return 0, 0, err
		}
		remaining -= n
	}

	if err := zw.Close(); err != nil {
		return 0, 0, err
	}

	return cw.n, sum.Sum32(), nil
}

// Unblock decompresses xz data of exactly csize bytes read from r into w.
// Several concatenated streams decode as one payload.
//
// Returns:
//   - uint32: Weak checksum of the decompressed bytes
//   - int64: Number of decompressed bytes written to w
//   - error: ErrCorruptData when the stream cannot be decoded or does not span
//     exactly csize bytes, or the error returned by w
func Unblock(r io.Reader, w io.Writer, csize int64) (uint32, int64, error) {
	lr := &io.LimitedReader{R: r, N: csize}
	zr, err := newStreamReader(lr)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", errs.ErrCorruptData, err)
	}

	buf, cleanup := pool.GetChunk()
	defer cleanup()

	var (
		sum     checksum.Weak
		written int64
	)
	for {
		n, rerr := zr.Read(buf)
		if n > 0 {
			_, _ = sum.Write(buf[:n])
			if _, err := w.Write(buf[:n]); err != nil {
				return 0, written, err
			}
			written += int64(n)
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return 0, written, fmt.Errorf("%w: %w", errs.ErrCorruptData, rerr)
		}
	}

	if lr.N != 0 {
		return 0, written, fmt.Errorf("%w: %d compressed bytes left unread", errs.ErrCorruptData, lr.N)
	}

	return sum.Sum32(), written, nil
}

// Copy copies exactly size bytes from r to w and returns their weak checksum.
func Copy(r io.Reader, w io.Writer, size int64) (uint32, error) {
	buf, cleanup := pool.GetReadBuffer()
	defer cleanup()

	var sum checksum.Weak
	n, err := io.CopyBuffer(io.MultiWriter(w, &sum), io.LimitReader(r, size), buf)
	if err != nil {
		return 0, err
	}
	if n != size {
		return 0, io.ErrUnexpectedEOF
	}

	return sum.Sum32(), nil
}
