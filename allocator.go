package contig

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Allocator constructs arrays from a Provider. It holds no per-array state,
// so one Allocator may construct arrays from several goroutines provided
// its Provider is goroutine safe.
type Allocator struct {
	provider Provider
	tracker  *Tracker
	logger   log.Logger

	track bool
	reg   prometheus.Registerer
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithProvider sets the memory provider, Heap by default.
func WithProvider(p Provider) Option {
	return func(al *Allocator) { al.provider = p }
}

// WithLogger sets the logger used for construction events.
func WithLogger(l log.Logger) Option {
	return func(al *Allocator) { al.logger = l }
}

// WithTracker wraps the provider in a Tracker whose collectors are
// registered on reg (nil leaves them unregistered).
func WithTracker(reg prometheus.Registerer) Option {
	return func(al *Allocator) {
		al.track = true
		al.reg = reg
	}
}

// NewAllocator returns an Allocator configured by opts.
func NewAllocator(opts ...Option) *Allocator {
	al := &Allocator{
		provider: Heap{},
		logger:   log.NewNopLogger(),
	}
	for _, o := range opts {
		o(al)
	}
	if al.track {
		al.tracker = NewTracker(al.provider, al.reg)
		al.provider = al.tracker
	}
	return al
}

// Provider returns the provider regions are allocated from.
func (al *Allocator) Provider() Provider { return al.provider }

// Tracker returns the allocator's Tracker, nil unless WithTracker was given.
func (al *Allocator) Tracker() *Tracker { return al.tracker }

var defaultAllocator = NewAllocator()

// Construct allocates an array with the given extents and element size
// from the Go heap. See Allocator.Construct.
func Construct(dims []int, elemSize int) (*Array, error) {
	return defaultAllocator.Construct(dims, elemSize)
}

// ConstructList is Construct with the extents given as arguments.
func ConstructList(elemSize int, dims ...int) (*Array, error) {
	return defaultAllocator.ConstructList(elemSize, dims...)
}

// Construct allocates the index and data regions of an array with the given
// extents, zeroed, and links the index region into one level per dimension.
//
// Invalid input fails before any allocation. A failure after the first
// allocation frees whatever was allocated, so either a complete array or an
// error is returned.
func (al *Allocator) Construct(dims []int, elemSize int) (*Array, error) {
	a, err := al.construct(dims, elemSize)
	if err != nil {
		level.Debug(al.logger).Log("msg", "array construction failed", "dims", fmt.Sprint(dims), "elem_size", elemSize, "err", err)
		return nil, err
	}
	level.Debug(al.logger).Log("msg", "constructed array", "dims", fmt.Sprint(dims), "elem_size", elemSize, "index_bytes", len(a.index), "data_bytes", len(a.data))
	return a, nil
}

// ConstructList is Construct with the extents given as arguments.
func (al *Allocator) ConstructList(elemSize int, dims ...int) (*Array, error) {
	if len(dims) == 0 {
		return nil, errors.Wrap(ErrInvalidShape, "no dimensions")
	}
	return al.Construct(slices.Clone(dims), elemSize)
}

func (al *Allocator) construct(dims []int, elemSize int) (*Array, error) {
	if err := validateShape(dims, elemSize); err != nil {
		return nil, err
	}
	slots, err := IndexSlotCount(dims)
	if err != nil {
		return nil, err
	}
	elems, err := DataElementCount(dims)
	if err != nil {
		return nil, err
	}
	indexBytes, err := regionBytes(slots, slotSize)
	if err != nil {
		return nil, errors.WithMessage(err, "index region")
	}
	dataBytes, err := regionBytes(elems, elemSize)
	if err != nil {
		return nil, errors.WithMessage(err, "data region")
	}
	if indexBytes > math.MaxInt-dataBytes {
		return nil, errors.Wrapf(ErrSizeOverflow, "index %d + data %d bytes", indexBytes, dataBytes)
	}
	if r, ok := al.provider.(reserver); ok {
		r.EnsureCapacity(indexBytes + dataBytes)
	}

	a := &Array{
		dims:     slices.Clone(dims),
		elemSize: elemSize,
		provider: al.provider,
	}
	if a.Rank() > 1 {
		if a.index, err = al.provider.Alloc(indexBytes); err != nil {
			return nil, errors.WithMessage(err, "index region")
		}
	}
	if a.data, err = al.provider.Alloc(dataBytes); err != nil {
		a.release()
		return nil, errors.WithMessage(err, "data region")
	}
	if a.Rank() == 1 {
		return a, nil
	}

	l := offsetLinker{index: a.index}
	if _, err := assemble(a.dims, newFragmenter(indexBytes), newFragmenter(dataBytes), elemSize, l); err != nil {
		a.release()
		return nil, errors.Wrapf(ErrAllocationFailure, "assembling %v: %v", dims, err)
	}
	return a, nil
}
