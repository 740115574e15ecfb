package contig

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSlotCount(t *testing.T) {
	tests := []struct {
		name string
		dims []int
		want int
	}{
		{"one dimension", []int{5}, 0},
		{"two dimensions", []int{3, 4}, 3},
		{"three dimensions", []int{3, 3, 3}, 3 + 9},
		{"four dimensions", []int{2, 3, 4, 5}, 2 + 6 + 24},
		{"unit extents", []int{1, 1, 1, 1}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IndexSlotCount(tt.dims)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataElementCount(t *testing.T) {
	tests := []struct {
		name string
		dims []int
		want int
	}{
		{"one dimension", []int{4}, 4},
		{"cube", []int{3, 3, 3}, 27},
		{"mixed", []int{2, 3, 4, 5}, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DataElementCount(tt.dims)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizeOverflow(t *testing.T) {
	huge := []int{math.MaxInt, math.MaxInt, 2}

	_, err := DataElementCount(huge)
	assert.ErrorIs(t, err, ErrSizeOverflow)

	_, err = IndexSlotCount(huge)
	assert.ErrorIs(t, err, ErrSizeOverflow)

	// 2^62 + 2^63 slots exceeds int.
	_, err = IndexSlotCount([]int{math.MaxInt/2 + 1, 2, 1})
	assert.ErrorIs(t, err, ErrSizeOverflow)

	_, err = regionBytes(math.MaxInt/4+1, 8)
	assert.ErrorIs(t, err, ErrSizeOverflow)

	n, err := regionBytes(27, 4)
	require.NoError(t, err)
	assert.Equal(t, 108, n)
}

func TestSizeNoDimensions(t *testing.T) {
	_, err := IndexSlotCount(nil)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = DataElementCount([]int{})
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestSizeInvalidExtents(t *testing.T) {
	for _, dims := range [][]int{{-1, 2}, {-2, -3}, {3, 0}, {2, 3, -4}} {
		_, err := IndexSlotCount(dims)
		assert.ErrorIs(t, err, ErrInvalidShape, "index slots for %v", dims)
		assert.NotErrorIs(t, err, ErrSizeOverflow)

		_, err = DataElementCount(dims)
		assert.ErrorIs(t, err, ErrInvalidShape, "elements for %v", dims)
		assert.NotErrorIs(t, err, ErrSizeOverflow)
	}
}

func TestValidateShape(t *testing.T) {
	assert.NoError(t, validateShape([]int{1}, 1))
	assert.ErrorIs(t, validateShape(nil, 4), ErrInvalidShape)
	assert.ErrorIs(t, validateShape([]int{0, 5}, 4), ErrInvalidShape)
	assert.ErrorIs(t, validateShape([]int{3, -1}, 4), ErrInvalidShape)
	assert.ErrorIs(t, validateShape([]int{3}, 0), ErrInvalidElementSize)
	assert.ErrorIs(t, validateShape([]int{3}, -8), ErrInvalidElementSize)
}
