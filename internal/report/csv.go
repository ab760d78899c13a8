// Package report serializes image records into the flat CSV metrics
// report consumed by downstream statistical analysis.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/microquant/cytometrics/internal/metrics"
)

// Writer writes one header row followed by one row per processed image.
// Rows are buffered; call Flush before closing the underlying writer.
type Writer struct {
	csv      *csv.Writer
	channels []string
	numBins  int
}

// NewWriter creates a report writer and emits the header row. The header
// lists, per channel in the given order: object count, mean diameter,
// mean aspect ratio, then one column per histogram bin labeled with its
// area range. The last bin is open-ended.
func NewWriter(w io.Writer, channels []string, binWidth float64, numBins int) (*Writer, error) {
	rw := &Writer{
		csv:      csv.NewWriter(w),
		channels: channels,
		numBins:  numBins,
	}

	header := []string{"Image_Name"}
	for _, ch := range channels {
		header = append(header,
			ch+"_Contour_Count",
			ch+"_Contour_Diameter_(mean)",
			ch+"_Contour_Aspect_Ratio_(mean)",
		)
		for i := 0; i < numBins-1; i++ {
			header = append(header, fmt.Sprintf("%g <= %s_Contour_Area < %g",
				float64(i)*binWidth, ch, float64(i+1)*binWidth))
		}
		header = append(header, fmt.Sprintf("%s_Contour_Area >= %g",
			ch, float64(numBins-1)*binWidth))
	}

	if err := rw.csv.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	return rw, nil
}

// WriteRecord appends one image row. The record must carry exactly one
// channel record per header channel, in header order; the diameter and
// aspect-ratio sums are written with six decimal places.
func (w *Writer) WriteRecord(rec metrics.ImageRecord) error {
	if len(rec.Channels) != len(w.channels) {
		return fmt.Errorf("record for %q has %d channels, report expects %d",
			rec.Name, len(rec.Channels), len(w.channels))
	}

	row := []string{rec.Name}
	for _, ch := range rec.Channels {
		if len(ch.Histogram) != w.numBins {
			return fmt.Errorf("record for %q has %d histogram bins, report expects %d",
				rec.Name, len(ch.Histogram), w.numBins)
		}
		row = append(row,
			strconv.FormatUint(uint64(ch.Count), 10),
			strconv.FormatFloat(ch.DiameterSum, 'f', 6, 64),
			strconv.FormatFloat(ch.AspectRatioSum, 'f', 6, 64),
		)
		for _, n := range ch.Histogram {
			row = append(row, strconv.FormatUint(uint64(n), 10))
		}
	}

	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to write report row for %q: %w", rec.Name, err)
	}
	return nil
}

// Flush writes buffered rows to the underlying writer and reports any
// error encountered while writing.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
