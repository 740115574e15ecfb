package contig

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// slotSize is the width of one index slot. Slots hold little-endian byte
// offsets: into the index region on every level but the innermost, into the
// data region on the innermost.
const slotSize = 8

// Array is the handle of an array built by Construct. The outermost index
// level starts at offset 0 of the index region; a one dimensional array has
// no index region and its handle is the data region itself.
//
// An Array performs no locking. Elements may be accessed concurrently under
// the caller's own synchronization; Destroy must not race with any access.
type Array struct {
	dims     []int
	elemSize int
	index    []byte
	data     []byte

	provider  Provider
	destroyed bool
}

// offsetLinker links slots of an untyped index region.
type offsetLinker struct {
	index []byte
}

func (offsetLinker) slotSize() int { return slotSize }

func (l offsetLinker) branch(slot, target, _ int) {
	binary.LittleEndian.PutUint64(l.index[slot:], uint64(target))
}

func (l offsetLinker) leaf(slot, target, _ int) {
	binary.LittleEndian.PutUint64(l.index[slot:], uint64(target))
}

// Dims returns a copy of the array's extents.
func (a *Array) Dims() []int { return slices.Clone(a.dims) }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.dims) }

// ElemSize returns the element size in bytes.
func (a *Array) ElemSize() int { return a.elemSize }

// Len returns the number of elements in the data region.
func (a *Array) Len() int { return len(a.data) / a.elemSize }

// IndexBytes returns the size of the index region, 0 for one dimension.
func (a *Array) IndexBytes() int { return len(a.index) }

// DataBytes returns the size of the data region.
func (a *Array) DataBytes() int { return len(a.data) }

// At returns the bytes of the element at path, following one index slot
// per dimension. The returned slice aliases the data region. It panics if
// len(path) differs from the rank or a coordinate is out of range.
func (a *Array) At(path ...int) []byte {
	a.mustBeLive()
	if len(path) != len(a.dims) {
		panic(fmt.Sprintf("contig: path of length %d for array of rank %d", len(path), len(a.dims)))
	}
	cur := 0
	for d := 0; d < len(path)-1; d++ {
		a.checkCoord(d, path[d])
		cur = a.slot(cur + path[d]*slotSize)
	}
	last := len(path) - 1
	a.checkCoord(last, path[last])
	off := cur + path[last]*a.elemSize
	return a.data[off : off+a.elemSize : off+a.elemSize]
}

// Flatten returns the whole data region, row-major. See the package level
// Flatten.
func (a *Array) Flatten() []byte {
	if a == nil {
		return nil
	}
	return Flatten(a, len(a.dims))
}

// Destroy frees both regions. See the package level Destroy.
func (a *Array) Destroy() {
	if a == nil {
		return
	}
	Destroy(a, len(a.dims))
}

// Flatten returns the data region of a, reached by following the first slot
// of each of the nDims-1 index levels. The result holds every element in
// row-major order and aliases the array. A nil a yields nil.
//
// nDims must be the rank a was constructed with; Flatten panics otherwise,
// and when a has been destroyed.
func Flatten(a *Array, nDims int) []byte {
	if a == nil {
		return nil
	}
	a.mustMatch(nDims)
	cur := 0
	for i := 0; i < nDims-1; i++ {
		cur = a.slot(cur)
	}
	return a.data[cur:]
}

// Destroy frees the data region of a, then its index region. A nil a is
// ignored. nDims must be the rank a was constructed with; Destroy panics
// otherwise, and when a has already been destroyed.
func Destroy(a *Array, nDims int) {
	if a == nil {
		return
	}
	data := Flatten(a, nDims)
	a.provider.Free(data)
	if nDims > 1 {
		a.provider.Free(a.index)
	}
	a.index, a.data = nil, nil
	a.destroyed = true
}

// release frees whichever regions were allocated by a failed construction.
func (a *Array) release() {
	if a.data != nil {
		a.provider.Free(a.data)
	}
	if a.index != nil {
		a.provider.Free(a.index)
	}
	a.index, a.data = nil, nil
}

func (a *Array) slot(off int) int {
	return int(binary.LittleEndian.Uint64(a.index[off:]))
}

func (a *Array) mustBeLive() {
	if a.destroyed {
		panic("contig: use after Destroy()")
	}
}

func (a *Array) mustMatch(nDims int) {
	a.mustBeLive()
	if nDims != len(a.dims) {
		panic(fmt.Sprintf("contig: nDims %d does not match rank %d", nDims, len(a.dims)))
	}
}

func (a *Array) checkCoord(dim, i int) {
	if i < 0 || i >= a.dims[dim] {
		panic(fmt.Sprintf("contig: index %d out of range [0:%d) in dimension %d", i, a.dims[dim], dim))
	}
}
