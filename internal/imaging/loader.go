package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Load reads and decodes an image from disk. Supported formats are those
// of the underlying imaging library (PNG, JPEG, GIF, TIFF, BMP); JPEG
// files are auto-oriented from their EXIF data.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %q: %w", path, err)
	}
	return img, nil
}

// SaveJPEG writes an image as a maximum-quality JPEG. Used for the
// diagnostic images written next to the report; the format matches the
// reference tool's output.
func SaveJPEG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(100)); err != nil {
		return fmt.Errorf("failed to save image %q: %w", path, err)
	}
	return nil
}
