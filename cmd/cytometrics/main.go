// Command cytometrics extracts per-image quantitative features from
// multi-channel microscopy images and writes a flat CSV report.
//
// The data directory must contain image_list.dat (one image filename per
// line) and an original/ subdirectory with the images. The report is
// written to computed_metrics.csv in the same directory; debug images,
// when enabled, go into result/.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/microquant/cytometrics/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	cfg := pipeline.DefaultConfig()

	showVersion := flag.Bool("version", false, "print version information and exit")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.BoolVar(&cfg.DebugImages, "debug-images", false, "write normalized/enhanced/analyzed/segmented images to result/")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of images to process concurrently")
	flag.Float64Var(&cfg.MinArea, "min-area", cfg.MinArea, "minimum qualifying object area")
	flag.Float64Var(&cfg.MinPerimeter, "min-perimeter", cfg.MinPerimeter, "minimum object boundary length")
	flag.Float64Var(&cfg.BinWidth, "bin-width", cfg.BinWidth, "area histogram bin width")
	flag.IntVar(&cfg.NumBins, "num-bins", cfg.NumBins, "number of area histogram bins (last bin is open-ended)")
	flag.Float64Var(&cfg.BlurRadius, "blur-radius", cfg.BlurRadius, "Gaussian blur radius applied before thresholding (0 disables)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <data-path>\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("cytometrics %s (commit %s)\n", Version, GitCommit)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	root := flag.Arg(0)

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	batch, err := pipeline.NewBatch(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start")
	}

	processed, err := batch.Run(root)
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}
	log.Info().Int("images", processed).Msg("report written")
}
