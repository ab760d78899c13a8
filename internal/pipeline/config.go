package pipeline

import "fmt"

// Config carries the tunable parameters of the pipeline. The defaults
// reproduce the reference tool's compiled-in constants; tests override
// them with small synthetic geometries.
type Config struct {
	// MinArea is the minimum qualifying net area for a logical object.
	MinArea float64

	// MinPerimeter is the minimum closed boundary length for an object
	// to survive filtering. Inclusive.
	MinPerimeter float64

	// BinWidth and NumBins shape the area histogram. The last bin is
	// open-ended and absorbs everything at or above
	// (NumBins-1)*BinWidth.
	BinWidth float64
	NumBins  int

	// Per-channel binarization thresholds, applied to the min-max
	// normalized planes. Pixels strictly above the threshold are
	// foreground.
	GreenThreshold uint8
	RedThreshold   uint8
	BlueThreshold  uint8

	// BlurRadius smooths each plane with a Gaussian before thresholding
	// when positive. Zero disables smoothing.
	BlurRadius float64

	// DebugImages enables rendering of the normalized, enhanced,
	// analyzed, and segmented diagnostic images per input image.
	DebugImages bool

	// Workers is the number of images processed concurrently by a batch
	// run. Values below 1 are treated as 1. Report row order always
	// matches input list order regardless.
	Workers int
}

// DefaultConfig returns the reference parameter set.
func DefaultConfig() Config {
	return Config{
		MinArea:        1.0,
		MinPerimeter:   20.0,
		BinWidth:       40,
		NumBins:        11,
		GreenThreshold: 15,
		RedThreshold:   35,
		BlueThreshold:  35,
		Workers:        1,
	}
}

// Validate reports configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.NumBins < 1 {
		return fmt.Errorf("NumBins must be at least 1, got %d", c.NumBins)
	}
	if c.BinWidth <= 0 {
		return fmt.Errorf("BinWidth must be positive, got %g", c.BinWidth)
	}
	if c.MinArea < 0 {
		return fmt.Errorf("MinArea must not be negative, got %g", c.MinArea)
	}
	if c.MinPerimeter < 0 {
		return fmt.Errorf("MinPerimeter must not be negative, got %g", c.MinPerimeter)
	}
	return nil
}
