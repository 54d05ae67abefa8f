package iso

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"resyncinator/internal/logging"
	"resyncinator/internal/services/sevenzip"
)

// ProcessedDirName holds disc images that have already been extracted.
const ProcessedDirName = "_processed_original_isos"

// Ingester extracts pre-existing disc images into the working tree and tags
// them as consumed by relocating them into the processed subfolder.
type Ingester struct {
	client sevenzip.Extractor
	logger *slog.Logger
}

// NewIngester constructs a disc image ingester.
func NewIngester(client sevenzip.Extractor, logger *slog.Logger) *Ingester {
	return &Ingester{client: client, logger: logging.NewComponentLogger(logger, "iso")}
}

// IngestAll extracts every *.iso directly inside workDir into workDir itself
// (no intermediate subfolder), then moves the image into the processed
// subfolder. A failure on one image is logged and that image is skipped;
// remaining images are still processed. Returns the number of images
// extracted.
func (i *Ingester) IngestAll(ctx context.Context, workDir string) (int, error) {
	logger := logging.WithContext(ctx, i.logger)

	processedDir := filepath.Join(workDir, ProcessedDirName)
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return 0, fmt.Errorf("create processed dir: %w", err)
	}

	images, err := findImages(workDir)
	if err != nil {
		return 0, err
	}

	extracted := 0
	for _, image := range images {
		logger.Info("extracting disc image", logging.String("image", image))
		if err := i.client.Extract(ctx, image, workDir); err != nil {
			logger.Error("disc image extraction failed; skipping image",
				logging.String("image", image),
				logging.Error(err),
			)
			continue
		}
		target := filepath.Join(processedDir, filepath.Base(image))
		if err := os.Rename(image, target); err != nil {
			logger.Error("failed to relocate extracted disc image",
				logging.String("image", image),
				logging.Error(err),
			)
			continue
		}
		logger.Info("disc image consumed", logging.String("moved_to", target))
		extracted++
	}
	return extracted, nil
}

func findImages(workDir string) ([]string, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("read work dir: %w", err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".iso") {
			images = append(images, filepath.Join(workDir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}
