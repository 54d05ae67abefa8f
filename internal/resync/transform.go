package resync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"resyncinator/internal/logging"
	"resyncinator/internal/services"
	"resyncinator/internal/wav"
)

// transformAsset retimes a single audio asset in place: decode to WAV, shift
// by the run delay, encode back, then atomically replace the original. All
// intermediates are removed on every path.
func (p *Pipeline) transformAsset(ctx context.Context, assetPath string, delayMs int) error {
	dir := filepath.Dir(assetPath)
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return services.Wrap(services.ErrTransform, "resync", "transform",
			fmt.Sprintf("asset directory %s is not writable", dir), err)
	}

	stem := strings.TrimSuffix(assetPath, filepath.Ext(assetPath))
	decodedPath := stem + ".resync.wav"
	shiftedPath := stem + ".resync.shifted.wav"
	encodedPath := stem + ".resync" + filepath.Ext(assetPath)
	defer func() {
		for _, temp := range []string{decodedPath, shiftedPath, encodedPath} {
			if err := os.Remove(temp); err != nil && !errors.Is(err, os.ErrNotExist) {
				p.logger.Warn("failed to remove intermediate file",
					logging.String("path", temp),
					logging.Error(err),
				)
			}
		}
	}()

	if err := p.converter.Convert(ctx, assetPath, decodedPath); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(assetPath), err)
	}

	if err := wav.ApplyOffset(decodedPath, shiftedPath, delayMs); err != nil {
		return services.Wrap(services.ErrTransform, "resync", "offset",
			fmt.Sprintf("shift %s by %dms", filepath.Base(assetPath), delayMs), err)
	}

	if err := p.converter.Convert(ctx, shiftedPath, encodedPath); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(assetPath), err)
	}

	if err := os.Rename(encodedPath, assetPath); err != nil {
		return services.Wrap(services.ErrTransform, "resync", "replace",
			fmt.Sprintf("replace %s with retimed audio", filepath.Base(assetPath)), err)
	}
	return nil
}
