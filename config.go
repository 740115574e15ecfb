package contig

import (
	"math"

	"github.com/c2h5oh/datasize"
	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

// Config selects and bounds the provider of an Allocator.
type Config struct {
	// MaxBytes caps the bytes held by live regions, 0 for no cap.
	MaxBytes datasize.ByteSize
	// ArenaChunkSize serves regions from a SafeArena with chunks of this
	// size; 0 uses the Go heap.
	ArenaChunkSize datasize.ByteSize
}

// RegisterFlags registers the config flags on fs.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.Var(newByteSizeValue(0, &c.MaxBytes), "contig.max-bytes", "Maximum bytes held by live array regions (e.g. 64MB). 0 disables the limit.")
	fs.Var(newByteSizeValue(0, &c.ArenaChunkSize), "contig.arena-chunk-size", "Serve array regions from an arena with chunks of this size (e.g. 1MB). 0 uses the Go heap.")
}

// Validate checks that the sizes are usable on this platform.
func (c *Config) Validate() error {
	if c.MaxBytes.Bytes() > math.MaxInt {
		return errors.Errorf("contig.max-bytes %s exceeds the addressable range", c.MaxBytes.HumanReadable())
	}
	if c.ArenaChunkSize.Bytes() > math.MaxInt {
		return errors.Errorf("contig.arena-chunk-size %s exceeds the addressable range", c.ArenaChunkSize.HumanReadable())
	}
	return nil
}

// NewAllocatorFromConfig builds a tracking Allocator from cfg whose
// collectors are registered on reg.
func NewAllocatorFromConfig(cfg Config, logger log.Logger, reg prometheus.Registerer) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var p Provider = Heap{}
	if cfg.ArenaChunkSize > 0 {
		p = NewSafeArena(int(cfg.ArenaChunkSize.Bytes()))
	}
	if cfg.MaxBytes > 0 {
		p = Limit(p, int(cfg.MaxBytes.Bytes()))
	}
	return NewAllocator(WithProvider(p), WithLogger(logger), WithTracker(reg)), nil
}

// byteSizeValue adapts datasize.ByteSize to pflag.Value.
type byteSizeValue datasize.ByteSize

func newByteSizeValue(val datasize.ByteSize, p *datasize.ByteSize) *byteSizeValue {
	*p = val
	return (*byteSizeValue)(p)
}

func (b *byteSizeValue) Set(s string) error {
	return (*datasize.ByteSize)(b).UnmarshalText([]byte(s))
}

func (b *byteSizeValue) String() string { return datasize.ByteSize(*b).String() }

func (b *byteSizeValue) Type() string { return "bytes" }
