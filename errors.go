package contig

import "github.com/pkg/errors"

// Construction errors. Every failure returned by Construct, ConstructList
// and the typed constructors wraps exactly one of these; match them with
// errors.Is.
var (
	ErrInvalidShape       = errors.New("contig: invalid shape")
	ErrInvalidElementSize = errors.New("contig: invalid element size")
	ErrSizeOverflow       = errors.New("contig: region size overflow")
	ErrAllocationFailure  = errors.New("contig: allocation failure")
)

// errRegionExhausted is returned by a fragmenter asked for more bytes than
// its region has left. Construct reports it as ErrAllocationFailure.
var errRegionExhausted = errors.New("region exhausted")
