package contig

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerCounts(t *testing.T) {
	tr := NewTracker(Limit(Heap{}, 100), nil)

	a, err := tr.Alloc(60)
	require.NoError(t, err)
	_, err = tr.Alloc(60)
	assert.ErrorIs(t, err, ErrAllocationFailure)
	b, err := tr.Alloc(10)
	require.NoError(t, err)

	assert.Equal(t, TrackerMetrics{Allocs: 2, Failures: 1, LiveRegions: 2, LiveBytes: 70}, tr.Metrics())

	tr.Free(a)
	tr.Free(b)
	assert.Equal(t, TrackerMetrics{Allocs: 2, Frees: 2, Failures: 1}, tr.Metrics())
}

func TestTrackerCollectors(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	al := NewAllocator(WithTracker(reg))

	a, err := al.Construct([]int{2, 8}, 4)
	require.NoError(t, err)

	tr := al.Tracker()
	require.NotNil(t, tr)
	assert.Equal(t, 2.0, testutil.ToFloat64(tr.allocsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(tr.liveRegions))
	assert.Equal(t, float64(2*slotSize+64), testutil.ToFloat64(tr.liveBytesG))

	a.Destroy()
	assert.Equal(t, 2.0, testutil.ToFloat64(tr.freesTotal))
	assert.Zero(t, testutil.ToFloat64(tr.liveRegions))
	assert.Zero(t, testutil.ToFloat64(tr.liveBytesG))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestTrackerDefaultAllocator(t *testing.T) {
	assert.Nil(t, NewAllocator().Tracker())
	assert.IsType(t, Heap{}, NewAllocator().Provider())
}
