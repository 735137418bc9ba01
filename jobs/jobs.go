package jobs

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"

	"github.com/KitchenMishap/pudding-squash/codec"
	"github.com/KitchenMishap/pudding-squash/compress"
	"github.com/KitchenMishap/pudding-squash/histogram"
	"github.com/KitchenMishap/pudding-squash/huffman"
	"github.com/KitchenMishap/pudding-squash/verify"
)

// Compressor runs the whole pipeline for one input file.
type Compressor struct {
	cfg    Config
	logger log.Logger
	out    io.Writer
}

// Result keeps everything the pipeline produced, for reporting and tests.
type Result struct {
	Table    histogram.Table
	Root     *huffman.Node
	Dict     huffman.Dictionary
	Stream   codec.Stream
	Stats    compress.CompressionStats
	Decoded  []byte // Nil unless a decode was requested
	Verified bool
	Elapsed  time.Duration
}

func NewCompressor(cfg Config, logger log.Logger) (*Compressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Compressor{cfg: cfg, logger: logger, out: os.Stdout}, nil
}

// SetOutput redirects the report and printed output, which go to stdout by
// default.
func (c *Compressor) SetOutput(w io.Writer) { c.out = w }

func (c *Compressor) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	res := &Result{}

	data, err := c.readInput()
	if err != nil {
		return nil, err
	}
	c.logger.Info("Read input", "file", c.cfg.InputPath, "size", datasize.ByteSize(len(data)).HumanReadable())

	start := time.Now()
	if c.cfg.Sequential {
		res.Table = histogram.Count(data)
		c.logger.Info("Count symbols", "mode", "sequential", "elapsed", time.Since(start))
	} else {
		res.Table, err = c.countParallel(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("count symbols: %w", err)
		}
		c.logger.Info("Count symbols", "mode", "parallel", "threads", c.cfg.Threads, "elapsed", time.Since(start))
	}
	c.logger.Debug("Frequency table", "symbols", res.Table.Len(), "total", res.Table.Total())

	start = time.Now()
	res.Root, err = huffman.BuildTree(res.Table)
	if err != nil {
		return nil, fmt.Errorf("build tree for %s: %w", c.cfg.InputPath, err)
	}
	c.logger.Info("Build tree", "elapsed", time.Since(start))

	start = time.Now()
	res.Dict, err = huffman.NewDictionary(res.Root)
	if err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}
	c.logger.Info("Build dictionary", "codes", res.Dict.Len(), "elapsed", time.Since(start))

	start = time.Now()
	res.Stream, err = codec.Encode(data, &res.Dict)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if err := os.WriteFile(c.cfg.OutputPath, res.Stream.Data, 0o644); err != nil {
		return nil, err
	}
	c.logger.Info("Write encoded file", "file", c.cfg.OutputPath,
		"size", datasize.ByteSize(len(res.Stream.Data)).HumanReadable(), "bits", res.Stream.Bits, "elapsed", time.Since(start))

	res.Stats = compress.SimulateCompression(res.Table, &res.Dict)
	if res.Stats.TotalBits != uint64(res.Stream.Bits) {
		return nil, fmt.Errorf("encoder wrote %d bits, code lengths predict %d", res.Stream.Bits, res.Stats.TotalBits)
	}

	if c.cfg.needsDecode() {
		if err := c.decode(data, res); err != nil {
			return nil, err
		}
	}

	res.Elapsed = time.Since(startTime)
	c.printReport(res)
	return res, nil
}

func (c *Compressor) readInput() ([]byte, error) {
	f, err := os.Open(c.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	limit := int64(c.cfg.MaxInput)
	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() && fi.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrInputTooLarge, c.cfg.InputPath,
			datasize.ByteSize(fi.Size()).HumanReadable(), c.cfg.MaxInput.HumanReadable())
	}

	r := bufio.NewReaderSize(f, int(readBufferSize))
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrInputTooLarge, c.cfg.InputPath, c.cfg.MaxInput.HumanReadable())
	}
	return data, nil
}

// countParallel counts in chunks while a ticker logs how far it has got.
func (c *Compressor) countParallel(ctx context.Context, data []byte) (histogram.Table, error) {
	var counted atomic.Int64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	if c.cfg.ProgressInterval > 0 && len(data) > 0 {
		ticker := time.NewTicker(c.cfg.ProgressInterval)
		defer ticker.Stop()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ticker.C:
					done := counted.Load()
					c.logger.Info("Counting", "progress", fmt.Sprintf("%.1f%%", float64(100*done)/float64(len(data))))
				case <-stop:
					return
				}
			}
		}()
	}

	table, err := histogram.CountParallelWithProgress(ctx, data, c.cfg.Threads, func(n int) {
		counted.Add(int64(n))
	})
	close(stop)
	wg.Wait()
	return table, err
}

func (c *Compressor) decode(data []byte, res *Result) error {
	start := time.Now()
	if c.cfg.Verify {
		report, err := verify.RoundTrip(data, res.Stream, res.Root)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		res.Decoded = report.Decoded
		res.Verified = true
		c.logger.Info("Verify round trip", "bytes", report.Bytes, "xxhash", fmt.Sprintf("%016x", report.Digest), "elapsed", time.Since(start))
	} else {
		decoded, err := codec.Decode(res.Stream, res.Root)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		res.Decoded = decoded
		c.logger.Info("Decode", "bytes", len(decoded), "elapsed", time.Since(start))
	}

	if c.cfg.DecodedPath != "" {
		if err := os.WriteFile(c.cfg.DecodedPath, res.Decoded, 0o644); err != nil {
			return err
		}
		if c.cfg.Verify {
			if err := verify.CheckFile(c.cfg.DecodedPath, int64(len(data)), verify.Digest(data)); err != nil {
				return err
			}
		}
		c.logger.Info("Write decoded file", "file", c.cfg.DecodedPath)
	}

	if c.cfg.Print {
		if _, err := c.out.Write(res.Decoded); err != nil {
			return err
		}
		fmt.Fprintln(c.out)
	}
	return nil
}
