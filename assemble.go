package contig

// linker writes one index slot during assembly. All offsets are byte
// offsets into their region.
type linker interface {
	// slotSize is the size in bytes of one index slot.
	slotSize() int
	// branch points the index slot at slot to the n slots starting at
	// target in the index region.
	branch(slot, target, n int)
	// leaf points the index slot at slot to the n elements starting at
	// target in the data region.
	leaf(slot, target, n int)
}

// assemble carves the level for dims[0] out of the index region and fills
// each of its slots, recursing until two dimensions remain; the slots of
// that level reference rows of the data region. It returns the offset of
// the carved level. len(dims) must be at least 2.
func assemble(dims []int, index, data *fragmenter, elemSize int, l linker) (int, error) {
	size := l.slotSize()
	level, err := index.fragment(dims[0], size)
	if err != nil {
		return 0, err
	}
	for i := 0; i < dims[0]; i++ {
		slot := level + i*size
		if len(dims) == 2 {
			row, err := data.fragment(dims[1], elemSize)
			if err != nil {
				return 0, err
			}
			l.leaf(slot, row, dims[1])
			continue
		}
		sub, err := assemble(dims[1:], index, data, elemSize, l)
		if err != nil {
			return 0, err
		}
		l.branch(slot, sub, dims[1])
	}
	return level, nil
}
