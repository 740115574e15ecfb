package contig

import (
	"unsafe"

	"github.com/pkg/errors"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk is one backing buffer of an arena.
type chunk struct {
	buf    []byte
	offset uintptr // next free byte in buf
}

// Arena is a chunked bump allocator serving array regions. A region never
// spans two chunks; requests larger than the chunk size get a chunk of
// their own. Free is a no-op: memory comes back with Reset, which makes
// every chunk available again, and goes away with Release. Not
// goroutine-safe, use SafeArena for concurrent access.
type Arena struct {
	chunks    []chunk
	chunkSize int
	cur       int // index of the chunk allocations are served from
}

// NewArena creates an Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// Alloc returns n zeroed bytes from the current chunk. When it cannot hold
// them, the next chunk with room becomes current; the arena grows only
// when no chunk has room. The region is pointer aligned.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if a.chunks == nil {
		return nil, errors.Wrap(ErrAllocationFailure, "arena: use after Release()")
	}
	if n < 0 {
		return nil, errors.Wrapf(ErrAllocationFailure, "arena: negative size %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}

	a.seek(uintptr(n))
	c := &a.chunks[a.cur]
	off := alignPtr(c.offset)
	c.offset = off + uintptr(n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&c.buf[off])), n)
	// Chunks are recycled by Reset.
	clear(b)
	return b, nil
}

// Free is a no-op; regions are reclaimed wholesale by Reset.
func (a *Arena) Free([]byte) {}

// EnsureCapacity makes current a chunk with at least n free bytes, growing
// the arena only when no chunk has them. Construct calls it so that both
// regions of an array come from the same chunk.
func (a *Arena) EnsureCapacity(n int) {
	if a.chunks == nil || n <= 0 {
		return
	}
	// Regions are aligned individually, leave room for the second one.
	a.seek(uintptr(n) + unsafe.Sizeof(uintptr(0)))
}

// Reset rewinds every chunk while keeping it for reuse. Arrays built from
// the arena must have been destroyed before calling it.
func (a *Arena) Reset() {
	if a.chunks == nil {
		return
	}
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	a.cur = 0
}

// Release drops all chunks. Later allocations fail.
func (a *Arena) Release() {
	a.chunks = nil
	a.cur = 0
}

// seek makes current the first chunk, from the current one on, that can
// hold n more bytes, appending a chunk if none can.
func (a *Arena) seek(n uintptr) {
	for i := a.cur; i < len(a.chunks); i++ {
		if a.chunks[i].fits(n) {
			a.cur = i
			return
		}
	}
	a.grow(int(n))
}

func (c *chunk) fits(n uintptr) bool {
	return alignPtr(c.offset)+n <= uintptr(len(c.buf))
}

// grow appends a chunk of at least min bytes and makes it current.
func (a *Arena) grow(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.cur = len(a.chunks) - 1
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	const align = unsafe.Sizeof(uintptr(0))
	mask := align - 1
	return (off + mask) & ^mask
}

// SizeInUse returns the bytes handed out across all chunks, alignment
// padding included.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, c := range a.chunks {
		sum += int(c.offset)
	}
	return sum
}

// NumChunks returns the number of chunks held by the arena.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// Capacity returns the total size in bytes of all chunks.
func (a *Arena) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns SizeInUse/Capacity, or 0 for an empty arena.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.ChunkSize(),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently handed out
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
