package resync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"resyncinator/internal/ark"
	"resyncinator/internal/config"
	"resyncinator/internal/discovery"
	"resyncinator/internal/iso"
	"resyncinator/internal/journal"
	"resyncinator/internal/logging"
	"resyncinator/internal/services"
	"resyncinator/internal/services/arkhelper"
	"resyncinator/internal/services/rockaudio"
	"resyncinator/internal/services/sevenzip"
)

// lockName is the advisory lock guarding exclusive access to the work tree.
const lockName = ".resyncinator.lock"

// Summary aggregates the outcome of one pipeline run.
type Summary struct {
	RunID             string
	DelayMs           int
	ImagesExtracted   int
	UnitsProcessed    int
	UnitsFailed       int
	UnitsSkipped      int
	AssetsTransformed int
	AssetsFailed      int
}

// Pipeline drives a full resync run: disc image ingest, archive unit
// processing, and the loose-asset pass. Execution is strictly sequential.
type Pipeline struct {
	cfg       *config.Config
	archive   *ark.Handler
	ingester  *iso.Ingester
	converter rockaudio.Converter
	store     *journal.Store
	logger    *slog.Logger

	// processed guards the at-most-one-transform-per-asset invariant.
	processed map[string]struct{}
}

// NewPipeline constructs a pipeline from its collaborators. store may be nil
// to disable journaling.
func NewPipeline(
	cfg *config.Config,
	archiver arkhelper.Archiver,
	extractor sevenzip.Extractor,
	converter rockaudio.Converter,
	store *journal.Store,
	logger *slog.Logger,
) *Pipeline {
	pipelineLogger := logging.NewComponentLogger(logger, "pipeline")
	return &Pipeline{
		cfg:       cfg,
		archive:   ark.NewHandler(archiver, cfg.Archive, logger),
		ingester:  iso.NewIngester(extractor, logger),
		converter: converter,
		store:     store,
		logger:    pipelineLogger,
	}
}

// Run executes the resync pipeline with the given delay. Failures are
// contained at the smallest meaningful unit; only an inability to acquire the
// work tree or walk it aborts the run.
func (p *Pipeline) Run(ctx context.Context, delayMs int) (*Summary, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)

	workDir := p.cfg.Paths.WorkDir
	lock := flock.New(filepath.Join(workDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work tree lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another resyncinator run holds the work tree")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release work tree lock", logging.Error(err))
		}
	}()

	summary := &Summary{RunID: runID, DelayMs: delayMs}
	p.processed = make(map[string]struct{})

	p.beginRun(ctx, runID, delayMs, logger)
	status := journal.StatusOK
	defer func() { p.finishRun(ctx, runID, status, logger) }()

	logger.Info("starting resync run",
		logging.String("work_dir", workDir),
		logging.Int("delay_ms", delayMs),
	)

	extracted, err := p.ingester.IngestAll(ctx, workDir)
	if err != nil {
		status = journal.StatusFailed
		return summary, fmt.Errorf("disc image ingest: %w", err)
	}
	summary.ImagesExtracted = extracted

	units, err := ark.FindUnits(workDir, p.cfg.Archive.Name)
	if err != nil {
		status = journal.StatusFailed
		return summary, fmt.Errorf("discover archive units: %w", err)
	}
	logger.Info("archive unit discovery complete", logging.Int("units", len(units)))

	for _, unit := range units {
		p.processUnit(ctx, unit, delayMs, summary)
	}

	logger.Info("processing loose assets")
	p.transformTree(ctx, workDir, "", delayMs, summary)

	if summary.UnitsFailed > 0 || summary.AssetsFailed > 0 {
		status = journal.StatusFailed
	}
	logger.Info("resync run finished",
		logging.Int("units_processed", summary.UnitsProcessed),
		logging.Int("units_failed", summary.UnitsFailed),
		logging.Int("assets_transformed", summary.AssetsTransformed),
		logging.Int("assets_failed", summary.AssetsFailed),
	)
	return summary, nil
}

// processUnit drives one archive unit through extract, transform, repack, and
// teardown. The workspace is removed regardless of outcome.
func (p *Pipeline) processUnit(ctx context.Context, unit ark.Unit, delayMs int, summary *Summary) {
	ctx = services.WithUnit(ctx, unit.HeaderPath)
	logger := logging.WithContext(ctx, p.logger)

	workspace, err := ark.NewWorkspace(p.cfg.Paths.StagingDir)
	if err != nil {
		logger.Error("failed to create workspace; unit skipped", logging.Error(err))
		summary.UnitsFailed++
		p.recordUnit(ctx, unit, journal.StatusFailed, err.Error())
		return
	}
	defer func() {
		if err := workspace.Remove(); err != nil {
			logger.Warn("failed to remove workspace",
				logging.String("workspace", workspace.Root),
				logging.Error(err),
			)
		}
	}()

	if err := p.archive.Extract(ctx, unit, workspace); err != nil {
		logger.Error("archive extraction failed; unit skipped", logging.Error(err))
		summary.UnitsFailed++
		p.recordUnit(ctx, unit, journal.StatusFailed, err.Error())
		return
	}

	p.transformTree(ctx, workspace.Root, unit.HeaderPath, delayMs, summary)

	skipped, err := p.archive.Repack(ctx, workspace, unit.Dir())
	switch {
	case err != nil:
		logger.Error("archive repack failed", logging.Error(err))
		summary.UnitsFailed++
		p.recordUnit(ctx, unit, journal.StatusFailed, err.Error())
	case skipped:
		summary.UnitsSkipped++
		p.recordUnit(ctx, unit, journal.StatusSkipped, "unpack marker absent")
	default:
		summary.UnitsProcessed++
		p.recordUnit(ctx, unit, journal.StatusOK, "")
	}
}

// transformTree discovers eligible assets under root and retimes each one.
// Per-asset failures are logged and recorded; sibling assets still proceed.
func (p *Pipeline) transformTree(ctx context.Context, root, unitHeader string, delayMs int, summary *Summary) {
	logger := logging.WithContext(ctx, p.logger)

	assets, err := discovery.Discover(root)
	if err != nil {
		logger.Error("asset discovery failed", logging.String("root", root), logging.Error(err))
		summary.AssetsFailed++
		return
	}
	if len(assets) == 0 {
		logger.Info("no eligible audio assets", logging.String("root", root))
		return
	}

	for _, asset := range assets {
		if _, done := p.processed[asset.Path]; done {
			continue
		}
		p.processed[asset.Path] = struct{}{}

		assetCtx := services.WithAsset(ctx, asset.Path)
		if err := p.transformAsset(assetCtx, asset.Path, delayMs); err != nil {
			logging.WithContext(assetCtx, p.logger).Error("asset transform failed; asset skipped",
				logging.Error(err),
			)
			summary.AssetsFailed++
			p.recordAsset(assetCtx, unitHeader, asset.Path, journal.StatusFailed, err.Error())
			continue
		}
		summary.AssetsTransformed++
		p.recordAsset(assetCtx, unitHeader, asset.Path, journal.StatusOK, "")
	}
}

func (p *Pipeline) beginRun(ctx context.Context, runID string, delayMs int, logger *slog.Logger) {
	if p.store == nil {
		return
	}
	if err := p.store.BeginRun(ctx, runID, delayMs, time.Now()); err != nil {
		logger.Warn("failed to journal run start", logging.Error(err))
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID, status string, logger *slog.Logger) {
	if p.store == nil {
		return
	}
	if err := p.store.FinishRun(ctx, runID, status, time.Now()); err != nil {
		logger.Warn("failed to journal run finish", logging.Error(err))
	}
}

func (p *Pipeline) recordUnit(ctx context.Context, unit ark.Unit, status, detail string) {
	if p.store == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	if err := p.store.RecordUnit(ctx, runID, unit.HeaderPath, status, detail); err != nil {
		p.logger.Warn("failed to journal unit result", logging.Error(err))
	}
}

func (p *Pipeline) recordAsset(ctx context.Context, unitHeader, assetPath, status, detail string) {
	if p.store == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	if err := p.store.RecordAsset(ctx, runID, unitHeader, assetPath, status, detail); err != nil {
		p.logger.Warn("failed to journal asset result", logging.Error(err))
	}
}
