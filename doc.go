// Package contig allocates N-dimensional arrays whose elements live in one
// contiguous block of memory while still being reachable one level per
// dimension.
//
// # Overview
//
// Every array is made of exactly two allocations:
//
//   - the data region, holding all elements in row-major order
//   - the index region, holding the chain of per-level slot arrays: d0
//     slots, then d0*d1 slots, and so on up to (not including) the last
//     dimension
//
// Both are sized up front, allocated once and never resized. The index
// region is then carved level by level so that each slot of the innermost
// level references one row of the data region. A one dimensional array has
// no index region at all.
//
// # Untyped arrays
//
// Construct and ConstructList build arrays of opaque fixed-size elements
// from a Provider:
//
//	a, err := contig.Construct([]int{3, 3, 3}, 4)
//	if err != nil {
//		return err
//	}
//	defer a.Destroy()
//
//	binary.LittleEndian.PutUint32(a.At(1, 2, 0), 15)
//	flat := a.Flatten() // all 27 elements, 4 bytes each
//
// # Typed arrays
//
// New2, New3 and NewN build arrays of native nested slices with the same
// two-region layout, so elements can be indexed as m[i][j][k]:
//
//	m, err := contig.New3[int](3, 3, 3)
//	m[1][2][0] = 15
//	flat := contig.FlattenOf[int](m, 3) // flat[15] == 15
//
// # Providers
//
// Regions come from a Provider. Heap uses the Go heap; Arena and SafeArena
// serve regions from large chunks that are recycled in bulk with Reset;
// Limit caps the bytes held by live regions; Tracker counts allocations and
// exports them as Prometheus metrics.
//
// # Errors
//
// Construction fails with an error wrapping ErrInvalidShape,
// ErrInvalidElementSize, ErrSizeOverflow or ErrAllocationFailure, and never
// leaves a region allocated behind it. Misuse of a handle (wrong rank,
// use after Destroy, out-of-range path) is a programming error and panics.
//
// # Thread Safety
//
// Arrays carry no locks. Distinct arrays never share memory and can be used
// from different goroutines freely; concurrent access to one array needs
// the caller's own synchronization, and Destroy must not race with it.
package contig
