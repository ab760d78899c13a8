package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
)

// SplitChannels extracts the red, green, and blue planes of an image as
// separate grayscale images.
func SplitChannels(img image.Image) (red, green, blue *image.Gray) {
	bounds := img.Bounds()
	red = image.NewGray(bounds)
	green = image.NewGray(bounds)
	blue = image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			i := red.PixOffset(x, y)
			red.Pix[i] = uint8(r >> 8)
			green.Pix[i] = uint8(g >> 8)
			blue.Pix[i] = uint8(b >> 8)
		}
	}
	return red, green, blue
}

// Normalize stretches a grayscale plane's intensity range to the full
// [0, 255] interval (min-max normalization). A constant plane comes back
// all zero.
func Normalize(plane *image.Gray) *image.Gray {
	bounds := plane.Bounds()
	out := image.NewGray(bounds)

	lo, hi := uint8(255), uint8(0)
	for _, v := range plane.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return out
	}

	scale := 255.0 / float64(hi-lo)
	for i, v := range plane.Pix {
		out.Pix[i] = uint8(float64(v-lo)*scale + 0.5)
	}
	return out
}

// Binarize thresholds a normalized plane into a binary mask: pixels with
// intensity strictly above threshold become foreground (255), everything
// else background (0). When blurRadius is positive the plane is smoothed
// with a Gaussian of that radius first, suppressing single-pixel noise
// before tracing.
func Binarize(plane *image.Gray, threshold uint8, blurRadius float64) *image.Gray {
	src := plane
	if blurRadius > 0 {
		// blur.Gaussian promotes to RGBA; fold back to a single plane.
		blurred := blur.Gaussian(plane, blurRadius)
		src = image.NewGray(plane.Bounds())
		bb := blurred.Bounds()
		for y := 0; y < bb.Dy(); y++ {
			for x := 0; x < bb.Dx(); x++ {
				src.Pix[y*src.Stride+x] = blurred.RGBAAt(bb.Min.X+x, bb.Min.Y+y).R
			}
		}
	}

	out := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		if v > threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

// Intersect returns the pixelwise AND of binary masks: a pixel is
// foreground only where it is foreground in every mask. All masks must
// share the same bounds.
func Intersect(masks ...*image.Gray) *image.Gray {
	if len(masks) == 0 {
		return nil
	}
	out := image.NewGray(masks[0].Bounds())
	copy(out.Pix, masks[0].Pix)

	for _, m := range masks[1:] {
		for i, v := range m.Pix {
			if v == 0 {
				out.Pix[i] = 0
			}
		}
	}
	return out
}
