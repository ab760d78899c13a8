// Package metrics computes per-channel separation and shape statistics
// over filtered objects: counts, equivalent diameters, aspect ratios,
// and a fixed-width area histogram with an open-ended last bin.
package metrics

import (
	"math"

	"github.com/microquant/cytometrics/internal/cells"
	"github.com/microquant/cytometrics/internal/geometry"
)

// Pi matches the reference tool's low-precision constant. Equivalent
// diameters computed with it reproduce the reference report bit for bit.
const Pi = 3.14

// ChannelRecord aggregates the objects of one channel. DiameterSum and
// AspectRatioSum are running sums; consumers divide by Count for means
// (see MeanDiameter). A record is immutable once computed.
type ChannelRecord struct {
	Count          uint
	DiameterSum    float64
	AspectRatioSum float64
	Histogram      []uint
}

// MeanDiameter returns DiameterSum / Count, or 0 when the record is empty.
func (r ChannelRecord) MeanDiameter() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.DiameterSum / float64(r.Count)
}

// MeanAspectRatio returns AspectRatioSum / Count, or 0 when the record
// is empty.
func (r ChannelRecord) MeanAspectRatio() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.AspectRatioSum / float64(r.Count)
}

// ImageRecord is the unit written to the output report: one image name
// plus the channel records in fixed channel order.
type ImageRecord struct {
	Name     string
	Channels []ChannelRecord
}

// Aggregate computes a ChannelRecord over filtered objects.
//
// Per object: the aspect ratio is the shorter over the longer side of the
// minimal enclosing rotated rectangle, always folded into [0, 1]; the
// equivalent diameter is that of a circle with the object's net area; the
// histogram bin is floor(netArea / binWidth), with overflow clamped into
// the last bin. An empty input yields an all-zero record.
func Aggregate(objects []cells.Object, binWidth float64, numBins int) ChannelRecord {
	rec := ChannelRecord{Histogram: make([]uint, numBins)}

	for _, obj := range objects {
		w, h := geometry.MinAreaRect(obj.Boundary)
		if w > h {
			w, h = h, w
		}
		if h > 0 {
			rec.AspectRatioSum += w / h
		}

		rec.DiameterSum += 2 * math.Sqrt(obj.Area/Pi)

		bin := int(obj.Area / binWidth)
		if bin >= numBins {
			bin = numBins - 1
		}
		rec.Histogram[bin]++
		rec.Count++
	}

	return rec
}
