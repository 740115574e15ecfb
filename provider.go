package contig

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Provider supplies the memory behind index and data regions.
//
// Alloc returns a zeroed slice of exactly n bytes or an error wrapping
// ErrAllocationFailure. Free returns a slice previously obtained from Alloc;
// it is called once per region.
type Provider interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// reserver is implemented by providers that can guarantee room for several
// regions ahead of time.
type reserver interface {
	EnsureCapacity(n int)
}

// Heap is a Provider backed by the Go heap. It is safe for concurrent use.
type Heap struct{}

// Alloc allocates n zeroed bytes. Requests the runtime refuses to size are
// reported as ErrAllocationFailure.
func (Heap) Alloc(n int) (b []byte, err error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrAllocationFailure, "negative size %d", n)
	}
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			b, err = nil, errors.Wrapf(ErrAllocationFailure, "heap: %d bytes: %v", n, rerr)
		}
	}()
	return make([]byte, n), nil
}

// Free is a no-op, the garbage collector reclaims the region.
func (Heap) Free([]byte) {}

// limited enforces a byte budget over the live regions of a Provider.
type limited struct {
	mu   sync.Mutex
	p    Provider
	max  int
	used int
}

// Limit returns a Provider that fails with ErrAllocationFailure once the
// bytes held by live regions would exceed maxBytes. The result is safe for
// concurrent use when p is.
func Limit(p Provider, maxBytes int) Provider {
	return &limited{p: p, max: maxBytes}
}

func (l *limited) Alloc(n int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.max-l.used {
		return nil, errors.Wrapf(ErrAllocationFailure, "limit: %d bytes requested, %d of %d in use", n, l.used, l.max)
	}
	b, err := l.p.Alloc(n)
	if err != nil {
		return nil, err
	}
	l.used += n
	return b, nil
}

func (l *limited) Free(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.used -= len(b)
	l.p.Free(b)
}

// EnsureCapacity forwards the reservation hint to the wrapped provider.
func (l *limited) EnsureCapacity(n int) {
	if r, ok := l.p.(reserver); ok {
		r.EnsureCapacity(n)
	}
}
