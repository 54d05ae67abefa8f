package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"resyncinator/internal/author"
	"resyncinator/internal/config"
	"resyncinator/internal/deps"
	"resyncinator/internal/iso"
	"resyncinator/internal/logging"
	"resyncinator/internal/preflight"
	"resyncinator/internal/resync"
	"resyncinator/internal/services/arkhelper"
	"resyncinator/internal/services/imgburn"
	"resyncinator/internal/services/ps2master"
	"resyncinator/internal/services/rockaudio"
	"resyncinator/internal/services/sevenzip"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var delayFlag int
	var skipResync bool
	var makeISO bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a resync pass over the work directory",
		Long: `Extract any new disc images, retime every eligible audio asset (inside
archive units and loose on disk), and repack the archives. With --skip the
resync pass is bypassed and only disc authoring runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			if skipResync {
				// Skip mode bypasses the resync pass but still ingests
				// disc images, so it needs the extractor only.
				if err := requireTool(cfg, "7z"); err != nil {
					return err
				}
			} else if err := preflight.RequireTools(cfg); err != nil {
				return err
			}
			if makeISO || skipResync {
				if err := requireAuthoringTools(cfg); err != nil {
					return err
				}
			}

			delay := cfg.Offset.DelayMs
			if cmd.Flags().Changed("delay") {
				delay = delayFlag
			}

			if skipResync {
				extractor, err := sevenzip.New(cfg.ToolPath(cfg.Tools.SevenZip))
				if err != nil {
					return err
				}
				if _, err := iso.NewIngester(extractor, logger).IngestAll(signalCtx, cfg.Paths.WorkDir); err != nil {
					return err
				}
				return runAuthoring(cmd, cfg, logger)
			}

			store, err := ctx.openJournal()
			if err != nil {
				logger.Warn("journal unavailable; run will not be recorded", logging.Error(err))
				store = nil
			} else {
				defer store.Close()
			}

			archiver, err := arkhelper.New(cfg.ToolPath(cfg.Tools.ArkHelper))
			if err != nil {
				return err
			}
			extractor, err := sevenzip.New(cfg.ToolPath(cfg.Tools.SevenZip))
			if err != nil {
				return err
			}
			converter, err := rockaudio.New(cfg.ToolPath(cfg.Tools.RockAudio))
			if err != nil {
				return err
			}

			pipeline := resync.NewPipeline(cfg, archiver, extractor, converter, store, logger)
			summary, err := pipeline.Run(signalCtx, delay)
			if summary != nil {
				printSummary(cmd, summary)
			}
			if err != nil {
				return err
			}

			// Authoring still proceeds after a pass with failures; the
			// failure summary is surfaced once the image is written.
			var runErr error
			if summary.UnitsFailed > 0 || summary.AssetsFailed > 0 {
				runErr = fmt.Errorf("run %s completed with failures", summary.RunID)
			}
			if makeISO {
				if err := runAuthoring(cmd, cfg, logger); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().IntVar(&delayFlag, "delay", 0, "Offset in milliseconds (negative trims, positive pads; overrides config)")
	cmd.Flags().BoolVar(&skipResync, "skip", false, "Skip the resync pass and go straight to disc authoring")
	cmd.Flags().BoolVar(&makeISO, "make-iso", false, "Author a disc image after the resync pass")
	return cmd
}

func runAuthoring(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	builder, err := imgburn.New(cfg.ToolPath(cfg.Tools.ImgBurn))
	if err != nil {
		return err
	}
	masterer, err := ps2master.New(cfg.ToolPath(cfg.Tools.PS2Master))
	if err != nil {
		return err
	}

	authorer := author.NewAuthorer(builder, masterer, cfg.Tools.ImgBurnINI, logger)
	isoPath, err := authorer.Author(cmd.Context(), cfg.Paths.WorkDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Authored disc image: %s\n", isoPath)
	return nil
}

// requireTool verifies a single named binary from the preflight requirements.
func requireTool(cfg *config.Config, name string) error {
	for _, status := range deps.CheckBinaries(preflight.Requirements(cfg)) {
		if status.Name == name && !status.Available {
			return fmt.Errorf("%s unavailable: %s", name, status.Detail)
		}
	}
	return nil
}

// requireAuthoringTools promotes the normally-optional authoring binaries to
// hard requirements when an image build was requested.
func requireAuthoringTools(cfg *config.Config) error {
	wanted := map[string]bool{"imgburn": true, "ps2master": true}
	var missing []string
	for _, status := range deps.CheckBinaries(preflight.Requirements(cfg)) {
		if wanted[status.Name] && !status.Available {
			missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
	}
	if cfg.Tools.ImgBurnINI == "" {
		missing = append(missing, "imgburn settings file (tools.imgburn_ini not configured)")
	} else if _, err := os.Stat(cfg.Tools.ImgBurnINI); err != nil {
		missing = append(missing, fmt.Sprintf("imgburn settings file (%v)", err))
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("disc authoring requested but unavailable: %s", strings.Join(missing, ", "))
}

func printSummary(cmd *cobra.Command, summary *resync.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (delay %dms)\n", summary.RunID, summary.DelayMs)
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Count"},
		[][]string{
			{"Disc images extracted", fmt.Sprintf("%d", summary.ImagesExtracted)},
			{"Archive units repacked", fmt.Sprintf("%d", summary.UnitsProcessed)},
			{"Archive units skipped", fmt.Sprintf("%d", summary.UnitsSkipped)},
			{"Archive units failed", fmt.Sprintf("%d", summary.UnitsFailed)},
			{"Assets retimed", fmt.Sprintf("%d", summary.AssetsTransformed)},
			{"Assets failed", fmt.Sprintf("%d", summary.AssetsFailed)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))
}
