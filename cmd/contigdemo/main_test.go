package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/pavanmanishd/contig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(contig.Config{}, log.NewNopLogger(), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Printing via multidimensional indexing:", lines[0])
	assert.Equal(t, "Printing via 1D indexing:", lines[3])
	assert.Equal(t, strings.TrimSpace(lines[1]), lines[4], "nested and flat order agree")
	assert.True(t, strings.HasPrefix(lines[4], "0 1 2 3 "))
	assert.True(t, strings.HasSuffix(lines[4], " 25 26"))
}

func TestRunLimited(t *testing.T) {
	var out bytes.Buffer
	err := run(contig.Config{MaxBytes: 64}, log.NewNopLogger(), &out)
	assert.ErrorIs(t, err, contig.ErrAllocationFailure)
}

func TestEach(t *testing.T) {
	var got [][]int
	each([]int{2, 3}, func(p []int) {
		got = append(got, append([]int(nil), p...))
	})
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}, got)
}

func TestPutGet(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8} {
		b := make([]byte, size)
		put(b, 200)
		assert.Equal(t, uint64(200), get(b), "size %d", size)
	}
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	assert.Error(t, err)
}
