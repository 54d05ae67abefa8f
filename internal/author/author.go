package author

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"resyncinator/internal/fileutil"
	"resyncinator/internal/iso"
	"resyncinator/internal/logging"
	"resyncinator/internal/services"
	"resyncinator/internal/services/imgburn"
	"resyncinator/internal/services/ps2master"
)

const (
	settingsName = "imgburn.ini"
	buildLogName = "DELETEME"
	sectorsName  = "DVD_Sectors.Bin"
)

// Authorer builds the final disc image from the working tree and runs the
// sector mastering pass over it.
type Authorer struct {
	builder     imgburn.Builder
	masterer    ps2master.Masterer
	settingsSrc string
	logger      *slog.Logger
}

// NewAuthorer constructs the disc authoring step. settingsSrc is the path to
// the image builder's settings file, staged into the work directory for the
// duration of the build.
func NewAuthorer(builder imgburn.Builder, masterer ps2master.Masterer, settingsSrc string, logger *slog.Logger) *Authorer {
	return &Authorer{
		builder:     builder,
		masterer:    masterer,
		settingsSrc: settingsSrc,
		logger:      logging.NewComponentLogger(logger, "author"),
	}
}

// Author derives the volume label from the boot descriptor, builds an
// ISO9660+UDF image of workDir's contents, moves it to workDir's parent, and
// masters it. A missing or unreadable boot descriptor aborts only this step.
func (a *Authorer) Author(ctx context.Context, workDir string) (string, error) {
	logger := logging.WithContext(ctx, a.logger)

	label, err := ParseVolumeLabel(filepath.Join(workDir, BootDescriptorName))
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "author", "parse boot descriptor",
			"cannot derive volume label; disc authoring aborted", err)
	}

	settingsDst := filepath.Join(workDir, settingsName)
	if err := fileutil.CopyFile(a.settingsSrc, settingsDst); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "author", "stage builder settings", "", err)
	}
	defer a.cleanup(workDir, logger)

	sources, err := buildSources(workDir)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "author", "enumerate sources", "", err)
	}
	if len(sources) == 0 {
		return "", services.Wrap(services.ErrValidation, "author", "enumerate sources",
			"working tree has no content to author", nil)
	}

	isoName := label + ".iso"
	logger.Info("building disc image",
		logging.String("volume_label", label),
		logging.Int("source_count", len(sources)),
	)
	if err := a.builder.Build(ctx, imgburn.BuildRequest{
		WorkDir:      workDir,
		SettingsPath: "./" + settingsName,
		Sources:      sources,
		VolumeLabel:  label,
		Dest:         isoName,
		LogName:      buildLogName,
	}); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "author", "build image", "", err)
	}

	builtPath := filepath.Join(workDir, isoName)
	finalPath := filepath.Join(filepath.Dir(workDir), isoName)
	if err := fileutil.MoveFile(builtPath, finalPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "author", "relocate image", "", err)
	}
	logger.Info("disc image written", logging.String("image", finalPath))

	if err := a.masterer.Master(ctx, finalPath); err != nil {
		return finalPath, services.Wrap(services.ErrExternalTool, "author", "master image",
			"image built but sector mastering failed", err)
	}
	return finalPath, nil
}

// cleanup removes build residue: the staged settings file, the build log, and
// the sector table the mastering tool leaves next to the image.
func (a *Authorer) cleanup(workDir string, logger *slog.Logger) {
	for _, path := range []string{
		filepath.Join(workDir, settingsName),
		filepath.Join(workDir, buildLogName),
		filepath.Join(filepath.Dir(workDir), sectorsName),
	} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove build residue",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}
}

// buildSources lists workDir entries to include in the image, excluding build
// residue, consumed disc images, and hidden files.
func buildSources(workDir string) ([]string, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, err
	}
	var sources []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, "."):
		case name == settingsName || name == buildLogName:
		case entry.IsDir() && name == iso.ProcessedDirName:
		case !entry.IsDir() && strings.EqualFold(filepath.Ext(name), ".iso"):
		default:
			sources = append(sources, name)
		}
	}
	sort.Strings(sources)
	return sources, nil
}
