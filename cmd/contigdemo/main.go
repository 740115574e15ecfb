// Command contigdemo builds a contiguous N-dimensional array, fills it
// through nested access and prints it both nested and flattened.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pavanmanishd/contig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

var (
	Dims     = pflag.IntSliceP("dims", "d", []int{3, 3, 3}, "array extents")
	ElemSize = pflag.IntP("elem-size", "e", 4, "element size in bytes (1, 2, 4 or 8)")
	Copies   = pflag.IntP("copies", "n", 1, "number of independent arrays to build concurrently")
	LogLevel = pflag.StringP("log.level", "L", "info", "log level (debug, info, warn, error)")
	Help     = pflag.BoolP("help", "h", false, "show this help text")
)

func main() {
	var cfg contig.Config
	cfg.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	if *Help || pflag.NArg() != 0 {
		fmt.Printf("usage: %s [options]\n%s", os.Args[0], pflag.CommandLine.FlagUsages())
		if *Help {
			return
		}
		os.Exit(2)
	}

	logger, err := newLogger(*LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg, logger, os.Stdout); err != nil {
		level.Error(logger).Log("msg", "demo failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(lvl string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

func run(cfg contig.Config, logger log.Logger, w io.Writer) error {
	switch *ElemSize {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("unsupported element size %d", *ElemSize)
	}
	if *Copies < 1 {
		return fmt.Errorf("copies must be at least 1")
	}

	al, err := contig.NewAllocatorFromConfig(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	arrays := make([]*contig.Array, *Copies)
	defer func() {
		for _, a := range arrays {
			a.Destroy()
		}
	}()

	var g errgroup.Group
	for i := range arrays {
		i := i
		g.Go(func() error {
			a, err := al.Construct(*Dims, *ElemSize)
			if err != nil {
				return err
			}
			arrays[i] = a
			fill(a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a := arrays[0]
	level.Info(logger).Log("msg", "built arrays", "copies", len(arrays), "dims", fmt.Sprint(a.Dims()),
		"index", humanize.IBytes(uint64(a.IndexBytes())), "data", humanize.IBytes(uint64(a.DataBytes())))

	fmt.Fprintln(w, "\nPrinting via multidimensional indexing:")
	each(a.Dims(), func(path []int) {
		fmt.Fprintf(w, "%d ", get(a.At(path...)))
	})
	fmt.Fprintln(w)

	fmt.Fprintln(w, "\nPrinting via 1D indexing:")
	flat := a.Flatten()
	for off := 0; off < len(flat); off += a.ElemSize() {
		fmt.Fprintf(w, "%d ", get(flat[off:off+a.ElemSize()]))
	}
	fmt.Fprintln(w)

	m := al.Tracker().Metrics()
	level.Info(logger).Log("msg", "allocation stats", "regions", m.LiveRegions, "bytes", humanize.IBytes(uint64(m.LiveBytes)), "failures", m.Failures)
	return nil
}

// fill stores the row-major position of every element in it.
func fill(a *contig.Array) {
	n := uint64(0)
	each(a.Dims(), func(path []int) {
		put(a.At(path...), n)
		n++
	})
}

// each calls fn for every index path of dims in row-major order.
func each(dims []int, fn func(path []int)) {
	path := make([]int, len(dims))
	for {
		fn(path)
		d := len(dims) - 1
		for ; d >= 0; d-- {
			path[d]++
			if path[d] < dims[d] {
				break
			}
			path[d] = 0
		}
		if d < 0 {
			return
		}
	}
}

func put(b []byte, v uint64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	}
}

func get(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}
