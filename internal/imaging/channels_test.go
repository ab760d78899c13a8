package imaging

import (
	"image"
	"image/color"
	"testing"
)

func grayFromValues(w, h int, values []uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, values)
	return img
}

func TestSplitChannels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 150, B: 100, A: 255})

	red, green, blue := SplitChannels(img)

	if red.GrayAt(0, 0).Y != 10 || green.GrayAt(0, 0).Y != 20 || blue.GrayAt(0, 0).Y != 30 {
		t.Errorf("pixel (0,0) planes = %d, %d, %d, want 10, 20, 30",
			red.GrayAt(0, 0).Y, green.GrayAt(0, 0).Y, blue.GrayAt(0, 0).Y)
	}
	if red.GrayAt(1, 0).Y != 200 || green.GrayAt(1, 0).Y != 150 || blue.GrayAt(1, 0).Y != 100 {
		t.Errorf("pixel (1,0) planes = %d, %d, %d, want 200, 150, 100",
			red.GrayAt(1, 0).Y, green.GrayAt(1, 0).Y, blue.GrayAt(1, 0).Y)
	}
}

func TestNormalizeStretchesRange(t *testing.T) {
	plane := grayFromValues(4, 1, []uint8{50, 100, 150, 250})
	out := Normalize(plane)

	if out.Pix[0] != 0 {
		t.Errorf("minimum should map to 0, got %d", out.Pix[0])
	}
	if out.Pix[3] != 255 {
		t.Errorf("maximum should map to 255, got %d", out.Pix[3])
	}
	if out.Pix[1] <= out.Pix[0] || out.Pix[2] <= out.Pix[1] || out.Pix[3] <= out.Pix[2] {
		t.Errorf("normalization must preserve ordering, got %v", out.Pix)
	}
}

func TestNormalizeConstantPlane(t *testing.T) {
	plane := grayFromValues(3, 1, []uint8{77, 77, 77})
	out := Normalize(plane)
	for i, v := range out.Pix {
		if v != 0 {
			t.Errorf("pixel %d = %d, want 0 on constant plane", i, v)
		}
	}
}

func TestNormalizeAlreadyFullRange(t *testing.T) {
	plane := grayFromValues(2, 1, []uint8{0, 255})
	out := Normalize(plane)
	if out.Pix[0] != 0 || out.Pix[1] != 255 {
		t.Errorf("full-range plane changed: %v", out.Pix)
	}
}

func TestBinarizeThresholdIsStrict(t *testing.T) {
	plane := grayFromValues(3, 1, []uint8{34, 35, 36})
	mask := Binarize(plane, 35, 0)

	if mask.Pix[0] != 0 {
		t.Errorf("value below threshold should be background, got %d", mask.Pix[0])
	}
	if mask.Pix[1] != 0 {
		t.Errorf("value equal to threshold should be background, got %d", mask.Pix[1])
	}
	if mask.Pix[2] != 255 {
		t.Errorf("value above threshold should be foreground, got %d", mask.Pix[2])
	}
}

func TestBinarizeMaxThreshold(t *testing.T) {
	plane := grayFromValues(2, 1, []uint8{255, 255})
	mask := Binarize(plane, 255, 0)
	for i, v := range mask.Pix {
		if v != 0 {
			t.Errorf("pixel %d = %d; nothing is strictly above 255", i, v)
		}
	}
}

func TestBinarizeWithBlurStillBinary(t *testing.T) {
	plane := grayFromValues(4, 4, []uint8{
		0, 0, 0, 0,
		0, 255, 255, 0,
		0, 255, 255, 0,
		0, 0, 0, 0,
	})
	mask := Binarize(plane, 35, 1.5)
	for i, v := range mask.Pix {
		if v != 0 && v != 255 {
			t.Errorf("pixel %d = %d, want strictly binary output", i, v)
		}
	}
}

func TestIntersect(t *testing.T) {
	a := grayFromValues(4, 1, []uint8{255, 255, 0, 0})
	b := grayFromValues(4, 1, []uint8{255, 0, 255, 0})
	c := grayFromValues(4, 1, []uint8{255, 255, 255, 255})

	out := Intersect(a, b, c)
	want := []uint8{255, 0, 0, 0}
	for i := range want {
		if out.Pix[i] != want[i] {
			t.Errorf("pixel %d = %d, want %d", i, out.Pix[i], want[i])
		}
	}
}

func TestIntersectDoesNotModifyInputs(t *testing.T) {
	a := grayFromValues(2, 1, []uint8{255, 0})
	b := grayFromValues(2, 1, []uint8{0, 255})
	Intersect(a, b)
	if a.Pix[0] != 255 || b.Pix[1] != 255 {
		t.Error("Intersect modified an input mask")
	}
}
