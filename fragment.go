package contig

import "github.com/pkg/errors"

// fragmenter hands out successive byte ranges of a pre-allocated region.
// Offsets are relative to the start of the region.
type fragmenter struct {
	cursor    int
	remaining int
}

func newFragmenter(size int) *fragmenter {
	return &fragmenter{remaining: size}
}

// fragment claims count*size bytes and returns the offset of the claimed
// range. A request that does not fit leaves the fragmenter untouched.
func (f *fragmenter) fragment(count, size int) (int, error) {
	n, ok := mulInt(count, size)
	if !ok || n > f.remaining {
		return 0, errors.Wrapf(errRegionExhausted, "want %d x %d bytes, %d left", count, size, f.remaining)
	}
	off := f.cursor
	f.cursor += n
	f.remaining -= n
	return off, nil
}
