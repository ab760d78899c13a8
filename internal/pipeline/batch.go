package pipeline

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/microquant/cytometrics/internal/imaging"
	"github.com/microquant/cytometrics/internal/metrics"
	"github.com/microquant/cytometrics/internal/report"
)

// Batch processes a directory of images and writes the metrics report.
//
// The directory layout follows the reference tool: root contains
// image_list.dat (one image filename per line), an original/ directory
// with the images themselves, and receives computed_metrics.csv plus,
// when debug images are enabled, a result/ directory with the diagnostic
// renderings.
type Batch struct {
	cfg  Config
	pipe *Pipeline
	log  zerolog.Logger
}

// NewBatch creates a batch runner. The configuration is validated here
// so a bad parameter set fails before any image is touched.
func NewBatch(cfg Config, log zerolog.Logger) (*Batch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Batch{cfg: cfg, pipe: New(cfg, log), log: log}, nil
}

// Run processes every listed image under root and writes the report.
// A failing image is logged and excluded from the report; it never
// aborts the batch. Row order matches list order even with multiple
// workers. The returned count is the number of successfully processed
// images.
func (b *Batch) Run(root string) (int, error) {
	names, err := readImageList(filepath.Join(root, "image_list.dat"))
	if err != nil {
		return 0, err
	}

	outDir := filepath.Join(root, "result")
	if b.cfg.DebugImages {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create result directory: %w", err)
		}
	}

	csvFile, err := os.Create(filepath.Join(root, "computed_metrics.csv"))
	if err != nil {
		return 0, fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer csvFile.Close()

	w, err := report.NewWriter(csvFile, ChannelNames(), b.cfg.BinWidth, b.cfg.NumBins)
	if err != nil {
		return 0, err
	}

	// Fan out across workers; collect by original index so the report
	// order stays deterministic. A nil slot marks a failed image.
	records := make([]*metrics.ImageRecord, len(names))
	workers := b.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = b.processOne(root, outDir, names[i])
			}
		}()
	}
	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	processed := 0
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if err := w.WriteRecord(*rec); err != nil {
			return processed, err
		}
		processed++
	}
	if err := w.Flush(); err != nil {
		return processed, err
	}
	return processed, nil
}

// processOne loads, processes, and (optionally) renders one image.
// Failures are logged and reported as nil so the batch keeps going.
func (b *Batch) processOne(root, outDir, name string) *metrics.ImageRecord {
	b.log.Info().Str("image", name).Msg("processing")

	img, err := imaging.Load(filepath.Join(root, "original", name))
	if err != nil {
		b.log.Error().Str("image", name).Err(err).Msg("skipping image")
		return nil
	}

	rec, dbg, err := b.pipe.ProcessImage(name, img)
	if err != nil {
		b.log.Error().Str("image", name).Err(err).Msg("skipping image")
		return nil
	}

	if dbg != nil {
		outputs := []struct {
			suffix string
			img    image.Image
		}{
			{"_a_normalized", dbg.Normalized},
			{"_b_enhanced", dbg.Enhanced},
			{"_c_analyzed", dbg.Analyzed},
			{"_d_segmented", dbg.Segmented},
		}
		for _, out := range outputs {
			path := filepath.Join(outDir, insertSuffix(name, out.suffix))
			if err := imaging.SaveJPEG(out.img, path); err != nil {
				b.log.Warn().Str("image", name).Err(err).Msg("failed to save debug image")
			}
		}
	}

	return &rec
}

// insertSuffix places a suffix between a filename's stem and extension.
func insertSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + suffix + ext
}

// readImageList reads one image filename per line, skipping blank lines.
func readImageList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image list: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image list: %w", err)
	}
	return names, nil
}
