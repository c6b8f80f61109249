package pool

import "sync"

// Fixed buffer sizes used by the section storage and framing code.
const (
	ChunkSize      = 64 * 1024 // ChunkSize is the compression block size.
	ReadBufferSize = 8 * 1024  // ReadBufferSize is the small copy and read-ahead size.
)

var (
	chunkPool = sync.Pool{
		New: func() any {
			b := make([]byte, ChunkSize)
			return &b
		},
	}
	readBufferPool = sync.Pool{
		New: func() any {
			b := make([]byte, ReadBufferSize)
			return &b
		},
	}
)

// GetChunk retrieves a ChunkSize byte slice from the pool.
//
// The caller must call the returned cleanup function to return the slice to the pool.
//
// Example:
//
//	buf, cleanup := pool.GetChunk()
//	defer cleanup()
func GetChunk() ([]byte, func()) {
	ptr, _ := chunkPool.Get().(*[]byte)
	return (*ptr)[:ChunkSize], func() { chunkPool.Put(ptr) }
}

// GetReadBuffer retrieves a ReadBufferSize byte slice from the pool.
//
// The caller must call the returned cleanup function to return the slice to the pool.
func GetReadBuffer() ([]byte, func()) {
	ptr, _ := readBufferPool.Get().(*[]byte)
	return (*ptr)[:ReadBufferSize], func() { readBufferPool.Put(ptr) }
}
