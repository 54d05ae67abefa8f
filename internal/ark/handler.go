package ark

import (
	"context"
	"log/slog"

	"resyncinator/internal/config"
	"resyncinator/internal/logging"
	"resyncinator/internal/services"
	"resyncinator/internal/services/arkhelper"
)

// Handler drives the archive tool over one unit's extract/repack cycle.
type Handler struct {
	client  arkhelper.Archiver
	archive config.Archive
	logger  *slog.Logger
}

// NewHandler constructs an archive unit handler.
func NewHandler(client arkhelper.Archiver, archive config.Archive, logger *slog.Logger) *Handler {
	return &Handler{
		client:  client,
		archive: archive,
		logger:  logging.NewComponentLogger(logger, "ark"),
	}
}

// Extract unpacks unit into workspace and records the unpack marker. The
// marker is only written after the tool reports success.
func (h *Handler) Extract(ctx context.Context, unit Unit, workspace Workspace) error {
	logger := logging.WithContext(ctx, h.logger)
	logger.Info("extracting archive unit",
		logging.String("header", unit.HeaderPath),
		logging.String("workspace", workspace.Root),
	)
	if err := h.client.Unpack(ctx, unit.HeaderPath, workspace.Root); err != nil {
		return services.Wrap(services.ErrExternalTool, "ark", "unpack",
			"archive tool failed; unit will be skipped", err)
	}
	if err := workspace.WriteMarker(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ark", "mark workspace", "", err)
	}
	return nil
}

// Repack rebuilds the archive pair in destDir from workspace contents. When
// the unpack marker is absent it returns skipped=true without invoking the
// archive tool, protecting the original archive from an unpopulated
// workspace.
func (h *Handler) Repack(ctx context.Context, workspace Workspace, destDir string) (skipped bool, err error) {
	logger := logging.WithContext(ctx, h.logger)
	if !workspace.HasMarker() {
		logger.Warn("skipping repack; unpack marker not found",
			logging.String("workspace", workspace.Root),
		)
		return true, nil
	}
	logger.Info("repacking archive unit",
		logging.String("workspace", workspace.Root),
		logging.String("dest", destDir),
		logging.String("archive_name", h.archive.Name),
		logging.Int64("max_size_bytes", h.archive.MaxSizeBytes),
	)
	if err := h.client.Pack(ctx, workspace.Root, destDir, h.archive.Name, h.archive.MaxSizeBytes); err != nil {
		return false, services.Wrap(services.ErrExternalTool, "ark", "pack",
			"archive tool failed; original archive left untouched", err)
	}
	return false, nil
}
