package contig

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

// IndexSlotCount returns the number of pointer slots in the index region of
// an array with the given extents: d0 + d0*d1 + ... up to, but excluding,
// the last dimension. A one dimensional array has no index region.
func IndexSlotCount(dims []int) (int, error) {
	if err := checkExtents(dims); err != nil {
		return 0, err
	}
	var total, mult uint64 = 0, 1
	for i := 0; i < len(dims)-1; i++ {
		var ok bool
		if mult, ok = mulU64(mult, uint64(dims[i])); !ok {
			return 0, errors.Wrapf(ErrSizeOverflow, "index slots for %v", dims)
		}
		var carry uint64
		if total, carry = bits.Add64(total, mult, 0); carry != 0 {
			return 0, errors.Wrapf(ErrSizeOverflow, "index slots for %v", dims)
		}
	}
	if total > math.MaxInt {
		return 0, errors.Wrapf(ErrSizeOverflow, "index slots for %v", dims)
	}
	return int(total), nil
}

// DataElementCount returns the number of elements in the data region, the
// product of all extents.
func DataElementCount(dims []int) (int, error) {
	if err := checkExtents(dims); err != nil {
		return 0, err
	}
	var n uint64 = 1
	for _, d := range dims {
		var ok bool
		if n, ok = mulU64(n, uint64(d)); !ok {
			return 0, errors.Wrapf(ErrSizeOverflow, "elements for %v", dims)
		}
	}
	if n > math.MaxInt {
		return 0, errors.Wrapf(ErrSizeOverflow, "elements for %v", dims)
	}
	return int(n), nil
}

// regionBytes returns count*size, failing when the product does not fit in int.
func regionBytes(count, size int) (int, error) {
	n, ok := mulInt(count, size)
	if !ok {
		return 0, errors.Wrapf(ErrSizeOverflow, "%d x %d bytes", count, size)
	}
	return n, nil
}

// validateShape checks extents and element size before anything is allocated.
func validateShape(dims []int, elemSize int) error {
	if err := checkExtents(dims); err != nil {
		return err
	}
	if elemSize < 1 {
		return errors.Wrapf(ErrInvalidElementSize, "element size %d", elemSize)
	}
	return nil
}

// checkExtents requires at least one dimension and every extent >= 1.
func checkExtents(dims []int) error {
	if len(dims) == 0 {
		return errors.Wrap(ErrInvalidShape, "no dimensions")
	}
	for i, d := range dims {
		if d < 1 {
			return errors.Wrapf(ErrInvalidShape, "dimension %d has extent %d", i, d)
		}
	}
	return nil
}

func mulU64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// mulInt multiplies two non-negative ints.
func mulInt(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	p, ok := mulU64(uint64(a), uint64(b))
	if !ok || p > math.MaxInt {
		return 0, false
	}
	return int(p), true
}
