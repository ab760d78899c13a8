// Package pipeline orchestrates the per-image feature extraction: channel
// separation, binarization, contour tracing, hierarchy resolution,
// filtering, and metrics aggregation, assembled into one record per image.
package pipeline

import (
	"fmt"
	"image"
	"image/color"

	"github.com/rs/zerolog"

	"github.com/microquant/cytometrics/internal/cells"
	"github.com/microquant/cytometrics/internal/contour"
	"github.com/microquant/cytometrics/internal/imaging"
	"github.com/microquant/cytometrics/internal/metrics"
)

// Channel identifies one of the three analyzed channels. Green and red
// are the primary fluorescence channels; white is the pixelwise
// intersection of all three binarized planes, representing signal
// detected consistently across every channel.
type Channel int

const (
	ChannelGreen Channel = iota
	ChannelRed
	ChannelWhite
)

// String returns the channel name as used in the report header.
func (c Channel) String() string {
	switch c {
	case ChannelGreen:
		return "Green"
	case ChannelRed:
		return "Red"
	case ChannelWhite:
		return "White"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ChannelNames returns the fixed channel order of the report.
func ChannelNames() []string {
	return []string{
		ChannelGreen.String(),
		ChannelRed.String(),
		ChannelWhite.String(),
	}
}

// Debug holds the diagnostic images rendered for one input image when
// Config.DebugImages is set.
type Debug struct {
	// Normalized is the color composite of the min-max normalized planes.
	Normalized *image.NRGBA
	// Enhanced is the color composite of the binarized planes.
	Enhanced *image.NRGBA
	// Analyzed is the normalized composite with the filtered green- and
	// white-channel boundaries drawn on top.
	Analyzed *image.NRGBA
	// Segmented shows every filtered object of every channel in its own
	// color on black.
	Segmented *image.NRGBA
}

// Pipeline runs the extraction stages for single images. It holds no
// per-image state; one Pipeline may process many images, concurrently if
// desired.
type Pipeline struct {
	cfg Config
	log zerolog.Logger
}

// New creates a pipeline with the given configuration.
func New(cfg Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// ProcessImage extracts the per-channel metrics record for one image.
// The returned Debug is non-nil only when Config.DebugImages is set.
// Processing a channel never fails on image content; the only error
// surface is a malformed containment hierarchy, which aborts this image
// and leaves others unaffected.
func (p *Pipeline) ProcessImage(name string, img image.Image) (metrics.ImageRecord, *Debug, error) {
	redPlane, greenPlane, bluePlane := imaging.SplitChannels(img)

	normRed := imaging.Normalize(redPlane)
	normGreen := imaging.Normalize(greenPlane)
	normBlue := imaging.Normalize(bluePlane)

	maskGreen := imaging.Binarize(normGreen, p.cfg.GreenThreshold, p.cfg.BlurRadius)
	maskRed := imaging.Binarize(normRed, p.cfg.RedThreshold, p.cfg.BlurRadius)
	maskBlue := imaging.Binarize(normBlue, p.cfg.BlueThreshold, p.cfg.BlurRadius)
	maskWhite := imaging.Intersect(maskBlue, maskGreen, maskRed)

	stages := []struct {
		channel Channel
		mask    *image.Gray
		mode    contour.Mode
	}{
		{ChannelGreen, maskGreen, contour.RetrieveExternal},
		{ChannelRed, maskRed, contour.RetrieveNested},
		{ChannelWhite, maskWhite, contour.RetrieveNested},
	}

	rec := metrics.ImageRecord{Name: name}
	kept := make([][]cells.Object, len(stages))
	for i, stage := range stages {
		res := contour.Find(stage.mask, stage.mode)
		objects, _, err := cells.Resolve(res.Contours, res.Hierarchy, p.cfg.MinArea)
		if err != nil {
			return metrics.ImageRecord{}, nil, fmt.Errorf("image %q, channel %s: %w", name, stage.channel, err)
		}
		kept[i] = cells.Filter(objects, p.cfg.MinPerimeter)
		rec.Channels = append(rec.Channels, metrics.Aggregate(kept[i], p.cfg.BinWidth, p.cfg.NumBins))

		p.log.Debug().
			Str("image", name).
			Stringer("channel", stage.channel).
			Int("traced", len(res.Contours)).
			Int("resolved", len(objects)).
			Int("kept", len(kept[i])).
			Msg("channel processed")
	}

	if !p.cfg.DebugImages {
		return rec, nil, nil
	}

	dbg := &Debug{
		Normalized: imaging.Merge(normBlue, normGreen, normRed),
		Enhanced:   imaging.Merge(maskBlue, maskGreen, maskRed),
		Analyzed:   imaging.Merge(normBlue, normGreen, normRed),
		Segmented:  image.NewNRGBA(img.Bounds()),
	}

	// Boundary colors in the analyzed composite follow the reference
	// tool: green-channel objects in yellow (red+green planes), white
	// intersection objects in magenta (red+blue planes).
	for _, obj := range kept[ChannelGreen] {
		imaging.DrawBoundary(dbg.Analyzed, obj.Boundary, color.NRGBA{R: 255, G: 255, A: 255})
	}
	for _, obj := range kept[ChannelWhite] {
		imaging.DrawBoundary(dbg.Analyzed, obj.Boundary, color.NRGBA{R: 255, B: 255, A: 255})
	}

	n := 0
	for _, objects := range kept {
		for _, obj := range objects {
			imaging.DrawBoundary(dbg.Segmented, obj.Boundary, imaging.ObjectColor(n))
			n++
		}
	}

	return rec, dbg, nil
}
