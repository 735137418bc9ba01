package jobs

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/KitchenMishap/pudding-squash/histogram"
)

var (
	ErrNoInput       = errors.New("jobs: no input file given")
	ErrNoOutput      = errors.New("jobs: no output file given")
	ErrInputTooLarge = errors.New("jobs: input larger than the configured maximum")
)

const readBufferSize = 8 * datasize.MB

type Config struct {
	InputPath   string
	OutputPath  string
	DecodedPath string // If set, the recovered bytes are written here and checked

	Threads    int
	Sequential bool // Count in one pass instead of in Threads chunks

	Verify bool // Decode in memory and compare with the input
	Print  bool // Write the recovered bytes to the report output

	MaxInput         datasize.ByteSize
	ProgressInterval time.Duration // Zero turns progress lines off
}

// DefaultThreads leaves some cores spare on bigger machines.
func DefaultThreads() int {
	numWorkers := runtime.NumCPU()
	if numWorkers > 4 {
		numWorkers -= 2 // Some spare for the OS
	}
	return numWorkers
}

func DefaultConfig() Config {
	return Config{
		Threads:          DefaultThreads(),
		Verify:           true,
		MaxInput:         1 * datasize.GB,
		ProgressInterval: time.Second,
	}
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return ErrNoInput
	}
	if c.OutputPath == "" {
		return ErrNoOutput
	}
	if !c.Sequential && c.Threads <= 0 {
		return fmt.Errorf("%w: got %d", histogram.ErrInvalidThreadCount, c.Threads)
	}
	return nil
}

// needsDecode reports whether any option asks for the stream to be decoded.
func (c Config) needsDecode() bool {
	return c.Verify || c.Print || c.DecodedPath != ""
}
