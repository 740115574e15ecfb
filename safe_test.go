package contig

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeArenaAlloc(t *testing.T) {
	s := NewSafeArena(1024)

	b, err := s.Alloc(100)
	require.NoError(t, err)
	assert.Len(t, b, 100)
	assert.Equal(t, 100, s.Metrics().SizeInUse)

	s.Reset()
	assert.Zero(t, s.Metrics().SizeInUse)

	s.Release()
	_, err = s.Alloc(1)
	assert.ErrorIs(t, err, ErrAllocationFailure)
}

func TestSafeArenaConcurrentAlloc(t *testing.T) {
	s := NewSafeArena(4096)
	const workers, perWorker = 10, 100

	var wg sync.WaitGroup
	regions := make([][][]byte, workers)
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				b, err := s.Alloc(16)
				if err != nil {
					t.Error(err)
					return
				}
				b[0] = byte(w)
				regions[w] = append(regions[w], b)
			}
		}()
	}
	wg.Wait()

	for w, rs := range regions {
		require.Len(t, rs, perWorker)
		for _, b := range rs {
			assert.Equal(t, byte(w), b[0], "regions must not overlap")
		}
	}
	assert.Equal(t, workers*perWorker*16, s.Metrics().SizeInUse)
}
