package contig

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
)

// sliceHeader has the memory layout of a Go slice of any element type.
// A typed index region is a single []sliceHeader whose entries are viewed
// as []T on the innermost level and as [][]T, [][][]T, ... above it.
type sliceHeader struct {
	data unsafe.Pointer
	len  int
	cap  int
}

// headerLinker links slots of a typed index region.
type headerLinker[T any] struct {
	index []sliceHeader
	data  []T
}

func (headerLinker[T]) slotSize() int { return int(unsafe.Sizeof(sliceHeader{})) }

func (l headerLinker[T]) branch(slot, target, n int) {
	size := l.slotSize()
	l.index[slot/size] = sliceHeader{data: unsafe.Pointer(&l.index[target/size]), len: n, cap: n}
}

func (l headerLinker[T]) leaf(slot, target, n int) {
	var zero T
	l.index[slot/l.slotSize()] = sliceHeader{data: unsafe.Pointer(&l.data[target/int(unsafe.Sizeof(zero))]), len: n, cap: n}
}

// build lays out a typed array and returns the header of its outermost
// level.
func build[T any](dims []int) (sliceHeader, error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if err := validateShape(dims, elemSize); err != nil {
		return sliceHeader{}, err
	}
	slots, err := IndexSlotCount(dims)
	if err != nil {
		return sliceHeader{}, err
	}
	elems, err := DataElementCount(dims)
	if err != nil {
		return sliceHeader{}, err
	}
	hdrSize := int(unsafe.Sizeof(sliceHeader{}))
	indexBytes, err := regionBytes(slots, hdrSize)
	if err != nil {
		return sliceHeader{}, err
	}
	dataBytes, err := regionBytes(elems, elemSize)
	if err != nil {
		return sliceHeader{}, err
	}

	data := make([]T, elems)
	if len(dims) == 1 {
		return sliceHeader{data: unsafe.Pointer(unsafe.SliceData(data)), len: elems, cap: elems}, nil
	}
	l := headerLinker[T]{index: make([]sliceHeader, slots), data: data}
	level, err := assemble(dims, newFragmenter(indexBytes), newFragmenter(dataBytes), elemSize, l)
	if err != nil {
		return sliceHeader{}, errors.Wrapf(ErrAllocationFailure, "assembling %v: %v", dims, err)
	}
	return sliceHeader{data: unsafe.Pointer(&l.index[level/hdrSize]), len: dims[0], cap: dims[0]}, nil
}

// New2 returns a d0 x d1 array of zero values whose rows share one
// contiguous backing array.
func New2[T any](d0, d1 int) ([][]T, error) {
	h, err := build[T]([]int{d0, d1})
	if err != nil {
		return nil, err
	}
	return *(*[][]T)(unsafe.Pointer(&h)), nil
}

// New3 returns a d0 x d1 x d2 array of zero values. All elements live in
// one backing array and all row headers in another.
func New3[T any](d0, d1, d2 int) ([][][]T, error) {
	h, err := build[T]([]int{d0, d1, d2})
	if err != nil {
		return nil, err
	}
	return *(*[][][]T)(unsafe.Pointer(&h)), nil
}

// NewN returns an array of any rank. The dynamic type of the result has one
// slice level per extent, e.g. [][][][]T for four extents and []T for one.
func NewN[T any](dims ...int) (any, error) {
	h, err := build[T](dims)
	if err != nil {
		return nil, err
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for range dims {
		typ = reflect.SliceOf(typ)
	}
	return reflect.NewAt(typ, unsafe.Pointer(&h)).Elem().Interface(), nil
}

// FlattenOf returns every element of an array built by New2, New3 or NewN
// as one row-major slice sharing its storage. h must have nDims slice
// levels over T; FlattenOf panics otherwise. A nil h yields nil.
func FlattenOf[T any](h any, nDims int) []T {
	if h == nil {
		return nil
	}
	v := reflect.ValueOf(h)
	n := 1
	for i := 0; i < nDims-1; i++ {
		if v.Kind() != reflect.Slice {
			panic(fmt.Sprintf("contig: level %d of %T is not a slice", i, h))
		}
		n *= v.Len()
		v = v.Index(0)
	}
	row, ok := v.Interface().([]T)
	if !ok {
		panic(fmt.Sprintf("contig: %T does not have %d levels over %s", h, nDims, reflect.TypeOf((*T)(nil)).Elem()))
	}
	return unsafe.Slice(unsafe.SliceData(row), n*len(row))
}
