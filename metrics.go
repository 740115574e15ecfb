package contig

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tracker is a Provider that records the allocations passing through it.
// It is safe for concurrent use when the wrapped Provider is.
type Tracker struct {
	p Provider

	allocs    atomic.Int64
	frees     atomic.Int64
	failures  atomic.Int64
	liveBytes atomic.Int64

	allocsTotal   prometheus.Counter
	freesTotal    prometheus.Counter
	failuresTotal prometheus.Counter
	liveRegions   prometheus.Gauge
	liveBytesG    prometheus.Gauge
}

// NewTracker wraps p. Collectors are registered on reg; a nil reg leaves
// them unregistered.
func NewTracker(p Provider, reg prometheus.Registerer) *Tracker {
	return &Tracker{
		p: p,
		allocsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "contig_region_allocations_total",
			Help: "Total number of regions allocated.",
		}),
		freesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "contig_region_frees_total",
			Help: "Total number of regions freed.",
		}),
		failuresTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "contig_region_allocation_failures_total",
			Help: "Total number of region allocations refused by the provider.",
		}),
		liveRegions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "contig_live_regions",
			Help: "Number of regions currently allocated.",
		}),
		liveBytesG: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "contig_live_bytes",
			Help: "Bytes held by regions currently allocated.",
		}),
	}
}

// Alloc allocates from the wrapped provider, counting refusals as failures.
func (t *Tracker) Alloc(n int) ([]byte, error) {
	b, err := t.p.Alloc(n)
	if err != nil {
		t.failures.Add(1)
		t.failuresTotal.Inc()
		return nil, err
	}
	t.allocs.Add(1)
	t.liveBytes.Add(int64(n))
	t.allocsTotal.Inc()
	t.liveRegions.Inc()
	t.liveBytesG.Add(float64(n))
	return b, nil
}

// Free returns b to the wrapped provider.
func (t *Tracker) Free(b []byte) {
	t.frees.Add(1)
	t.liveBytes.Add(-int64(len(b)))
	t.freesTotal.Inc()
	t.liveRegions.Dec()
	t.liveBytesG.Sub(float64(len(b)))
	t.p.Free(b)
}

// EnsureCapacity forwards the reservation hint to the wrapped provider.
func (t *Tracker) EnsureCapacity(n int) {
	if r, ok := t.p.(reserver); ok {
		r.EnsureCapacity(n)
	}
}

// Metrics returns a snapshot of the tracked counts.
func (t *Tracker) Metrics() TrackerMetrics {
	allocs, frees := t.allocs.Load(), t.frees.Load()
	return TrackerMetrics{
		Allocs:      allocs,
		Frees:       frees,
		Failures:    t.failures.Load(),
		LiveRegions: allocs - frees,
		LiveBytes:   t.liveBytes.Load(),
	}
}

// TrackerMetrics contains the counts recorded by a Tracker.
type TrackerMetrics struct {
	Allocs      int64 // Regions allocated
	Frees       int64 // Regions freed
	Failures    int64 // Allocations refused by the provider
	LiveRegions int64 // Allocs - Frees
	LiveBytes   int64 // Bytes held by live regions
}
