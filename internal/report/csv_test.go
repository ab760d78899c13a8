package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/microquant/cytometrics/internal/metrics"
)

func channels() []string { return []string{"Green", "Red", "White"} }

func emptyRecord(name string, numBins int) metrics.ImageRecord {
	rec := metrics.ImageRecord{Name: name}
	for i := 0; i < 3; i++ {
		rec.Channels = append(rec.Channels, metrics.ChannelRecord{Histogram: make([]uint, numBins)})
	}
	return rec
}

func TestHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, channels(), 40, 11)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	header := rows[0]

	// 1 name column + 3 channels x (3 stats + 11 bins)
	if want := 1 + 3*(3+11); len(header) != want {
		t.Fatalf("header has %d columns, want %d", len(header), want)
	}
	if header[0] != "Image_Name" {
		t.Errorf("header[0] = %q, want Image_Name", header[0])
	}
	if header[1] != "Green_Contour_Count" {
		t.Errorf("header[1] = %q, want Green_Contour_Count", header[1])
	}
	if header[2] != "Green_Contour_Diameter_(mean)" {
		t.Errorf("header[2] = %q", header[2])
	}
	if header[3] != "Green_Contour_Aspect_Ratio_(mean)" {
		t.Errorf("header[3] = %q", header[3])
	}
	if header[4] != "0 <= Green_Contour_Area < 40" {
		t.Errorf("first bin column = %q", header[4])
	}
	if header[14] != "Green_Contour_Area >= 400" {
		t.Errorf("last green bin column = %q, want open-ended range", header[14])
	}
	if header[15] != "Red_Contour_Count" {
		t.Errorf("header[15] = %q, want Red_Contour_Count", header[15])
	}
	if header[29] != "White_Contour_Count" {
		t.Errorf("header[29] = %q, want White_Contour_Count", header[29])
	}
}

func TestWriteRecordRow(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, channels(), 40, 11)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	rec := emptyRecord("slice_042.tif", 11)
	rec.Channels[0] = metrics.ChannelRecord{
		Count:          2,
		DiameterSum:    22.5,
		AspectRatioSum: 1.75,
		Histogram:      []uint{1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	}

	if err := w.WriteRecord(rec); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 record", len(rows))
	}
	row := rows[1]

	if row[0] != "slice_042.tif" {
		t.Errorf("row[0] = %q", row[0])
	}
	if row[1] != "2" {
		t.Errorf("green count = %q, want 2", row[1])
	}
	if row[2] != "22.500000" {
		t.Errorf("green diameter sum = %q, want 22.500000", row[2])
	}
	if row[3] != "1.750000" {
		t.Errorf("green aspect ratio sum = %q, want 1.750000", row[3])
	}
	if row[4] != "1" || row[6] != "1" {
		t.Errorf("green bins = %v", row[4:15])
	}
	// Untouched channels serialize as zeros.
	if row[15] != "0" || row[16] != "0.000000" {
		t.Errorf("red columns = %q, %q, want zeros", row[15], row[16])
	}
}

func TestWriteRecordValidatesShape(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, channels(), 40, 11)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	tests := []struct {
		name string
		rec  metrics.ImageRecord
	}{
		{"missing channel", metrics.ImageRecord{Name: "x", Channels: make([]metrics.ChannelRecord, 2)}},
		{"wrong bin count", func() metrics.ImageRecord {
			rec := emptyRecord("x", 11)
			rec.Channels[1].Histogram = make([]uint, 5)
			return rec
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.WriteRecord(tt.rec); err == nil {
				t.Error("WriteRecord should reject malformed record")
			}
		})
	}
}
