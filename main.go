package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ledgerwatch/log/v3"

	"github.com/KitchenMishap/pudding-squash/jobs"
)

func main() {
	cfg := jobs.DefaultConfig()

	flag.StringVar(&cfg.InputPath, "in", "", "File to compress")
	flag.StringVar(&cfg.OutputPath, "out", "", "Where to write the packed bitstream")
	flag.StringVar(&cfg.DecodedPath, "decoded", "", "Also decode and write the recovered bytes here")
	flag.IntVar(&cfg.Threads, "threads", cfg.Threads, "Chunks to count in parallel")
	flag.BoolVar(&cfg.Sequential, "sequential", false, "Count symbols in a single pass")
	flag.BoolVar(&cfg.Verify, "verify", cfg.Verify, "Decode in memory and check against the input")
	flag.BoolVar(&cfg.Print, "print", false, "Print the decoded bytes")
	flag.TextVar(&cfg.MaxInput, "max-input", cfg.MaxInput, "Largest input accepted, e.g. 512MB")
	flag.DurationVar(&cfg.ProgressInterval, "progress", cfg.ProgressInterval, "Interval between progress lines while counting, 0 for none")
	verbosity := flag.String("verbosity", "info", "Log level: crit, error, warn, info, debug, trace")
	flag.Parse()

	lvl, err := log.LvlFromString(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := log.New()
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))

	compressor, err := jobs.NewCompressor(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if _, err := compressor.Run(context.Background()); err != nil {
		logger.Error("Compression failed", "err", err)
		os.Exit(1)
	}
}
