package resync_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"resyncinator/internal/journal"
	"resyncinator/internal/logging"
	"resyncinator/internal/resync"
	"resyncinator/internal/testsupport"
	"resyncinator/internal/wav"
)

// copyConverter stands in for the audio codec tool: both directions are plain
// byte copies, so the WAV fixtures survive the vgs round trip unchanged.
type copyConverter struct {
	err   error
	calls int
}

func (c *copyConverter) Convert(ctx context.Context, srcPath, dstPath string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	return os.WriteFile(dstPath, data, 0o644)
}

// treeArchiver extracts a canned songs tree into the workspace and records
// pack invocations.
type treeArchiver struct {
	unpackErr error
	packErr   error
	packs     int
	packName  string
	packSize  int64
	frames    int64
}

func (a *treeArchiver) Unpack(ctx context.Context, hdrPath, outDir string) error {
	if a.unpackErr != nil {
		return a.unpackErr
	}
	frames := a.frames
	if frames == 0 {
		frames = 5000
	}
	writeWAVFile(outDir, filepath.Join("songs", "unit_track", "unit_track.vgs"), frames)
	return nil
}

func (a *treeArchiver) Pack(ctx context.Context, inputDir, outDir, name string, maxSizeBytes int64) error {
	a.packs++
	a.packName = name
	a.packSize = maxSizeBytes
	return a.packErr
}

// nopExtractor satisfies the disc image interface for runs without ISOs.
type nopExtractor struct{}

func (nopExtractor) Extract(ctx context.Context, imagePath, outDir string) error { return nil }

func writeWAVFile(root, rel string, frames int64) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	writer, err := wav.Create(path, wav.Format{
		Channels:    1,
		SampleWidth: 2,
		FrameRate:   44100,
		Frames:      frames,
		Codec:       wav.CodecPCM,
	})
	if err != nil {
		panic(err)
	}
	buf := make([]byte, 2)
	for i := int64(0); i < frames; i++ {
		buf[0] = byte(i)
		buf[1] = byte(i >> 8)
		if _, err := writer.Write(buf); err != nil {
			panic(err)
		}
	}
	if err := writer.Close(); err != nil {
		panic(err)
	}
}

func TestRunTransformsLooseAssets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteWAV(t, filepath.Join(cfg.Paths.WorkDir, "songs", "track1", "track1.vgs"), 1, 2, 44100, 5000)
	testsupport.WriteWAV(t, filepath.Join(cfg.Paths.WorkDir, "songs", "track1", "track1_p50.vgs"), 1, 2, 44100, 5000)
	store := testsupport.MustOpenStore(t)

	pipeline := resync.NewPipeline(cfg, &treeArchiver{}, nopExtractor{}, &copyConverter{}, store, logging.NewNop())
	summary, err := pipeline.Run(context.Background(), -60)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.AssetsTransformed != 1 || summary.AssetsFailed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	format, err := wav.ReadInfo(filepath.Join(cfg.Paths.WorkDir, "songs", "track1", "track1.vgs"))
	if err != nil {
		t.Fatalf("read transformed asset: %v", err)
	}
	if format.Frames != 5000-2646 {
		t.Fatalf("expected %d frames after trim, got %d", 5000-2646, format.Frames)
	}

	// The practice variant is untouched.
	format, err = wav.ReadInfo(filepath.Join(cfg.Paths.WorkDir, "songs", "track1", "track1_p50.vgs"))
	if err != nil {
		t.Fatal(err)
	}
	if format.Frames != 5000 {
		t.Fatalf("practice variant was transformed: %d frames", format.Frames)
	}

	// No intermediates left behind.
	entries, err := os.ReadDir(filepath.Join(cfg.Paths.WorkDir, "songs", "track1"))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".resync") {
			t.Fatalf("intermediate file left behind: %s", entry.Name())
		}
	}

	run, err := store.LastRun(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run == nil || run.ID != summary.RunID || run.Status != journal.StatusOK {
		t.Fatalf("unexpected journaled run: %+v", run)
	}
}

func TestRunProcessesArchiveUnits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WorkDir, "GEN", "MAIN.HDR"), []byte("h"))
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WorkDir, "GEN", "MAIN_0.ARK"), []byte("d"))
	archiver := &treeArchiver{}
	store := testsupport.MustOpenStore(t)

	pipeline := resync.NewPipeline(cfg, archiver, nopExtractor{}, &copyConverter{}, store, logging.NewNop())
	summary, err := pipeline.Run(context.Background(), -60)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.UnitsProcessed != 1 || summary.UnitsFailed != 0 {
		t.Fatalf("unexpected unit counts: %+v", summary)
	}
	if summary.AssetsTransformed != 1 {
		t.Fatalf("expected unit asset transformed: %+v", summary)
	}
	if archiver.packs != 1 || archiver.packName != "MAIN" || archiver.packSize != 4073741823 {
		t.Fatalf("unexpected pack call: %+v", archiver)
	}

	// Workspaces are torn down regardless of outcome.
	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging dir not cleaned: %v", entries)
	}

	units, err := store.UnitResults(context.Background(), summary.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 1 || units[0].Status != journal.StatusOK {
		t.Fatalf("unexpected unit results: %+v", units)
	}
}

func TestRunIsolatesUnitExtractionFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WorkDir, "GEN", "MAIN.HDR"), []byte("h"))
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WorkDir, "GEN", "MAIN_0.ARK"), []byte("d"))
	testsupport.WriteWAV(t, filepath.Join(cfg.Paths.WorkDir, "songs", "loose", "loose.vgs"), 1, 2, 44100, 5000)
	archiver := &treeArchiver{unpackErr: errors.New("corrupt archive")}

	pipeline := resync.NewPipeline(cfg, archiver, nopExtractor{}, &copyConverter{}, nil, logging.NewNop())
	summary, err := pipeline.Run(context.Background(), -60)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.UnitsFailed != 1 {
		t.Fatalf("expected failed unit: %+v", summary)
	}
	if archiver.packs != 0 {
		t.Fatal("pack must not run after failed extraction")
	}
	// The loose pass still runs.
	if summary.AssetsTransformed != 1 {
		t.Fatalf("expected loose asset still transformed: %+v", summary)
	}
	// Workspace torn down even on failure.
	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging dir not cleaned: %v", entries)
	}
}

func TestRunIsolatesAssetFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Too short to trim 2646 frames.
	testsupport.WriteWAV(t, filepath.Join(cfg.Paths.WorkDir, "songs", "short", "short.vgs"), 1, 2, 44100, 100)
	testsupport.WriteWAV(t, filepath.Join(cfg.Paths.WorkDir, "songs", "zlong", "zlong.vgs"), 1, 2, 44100, 5000)

	pipeline := resync.NewPipeline(cfg, &treeArchiver{}, nopExtractor{}, &copyConverter{}, nil, logging.NewNop())
	summary, err := pipeline.Run(context.Background(), -60)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.AssetsFailed != 1 || summary.AssetsTransformed != 1 {
		t.Fatalf("unexpected asset counts: %+v", summary)
	}

	// The failed asset keeps its original payload.
	format, err := wav.ReadInfo(filepath.Join(cfg.Paths.WorkDir, "songs", "short", "short.vgs"))
	if err != nil {
		t.Fatal(err)
	}
	if format.Frames != 100 {
		t.Fatalf("failed asset was modified: %d frames", format.Frames)
	}
}

func TestRunZeroDelayIsPassthrough(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	asset := filepath.Join(cfg.Paths.WorkDir, "songs", "track1", "track1.vgs")
	testsupport.WriteWAV(t, asset, 1, 2, 44100, 1000)
	before, err := os.ReadFile(asset)
	if err != nil {
		t.Fatal(err)
	}

	pipeline := resync.NewPipeline(cfg, &treeArchiver{}, nopExtractor{}, &copyConverter{}, nil, logging.NewNop())
	summary, err := pipeline.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.AssetsTransformed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	after, err := os.ReadFile(asset)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("zero delay must leave the asset byte-identical")
	}
}

func TestRunRefusesConcurrentWorkTree(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lock := flock.New(filepath.Join(cfg.Paths.WorkDir, ".resyncinator.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not pre-acquire lock: %v", err)
	}
	defer lock.Unlock()

	pipeline := resync.NewPipeline(cfg, &treeArchiver{}, nopExtractor{}, &copyConverter{}, nil, logging.NewNop())
	if _, err := pipeline.Run(context.Background(), -60); err == nil {
		t.Fatal("expected error while work tree is locked")
	}
}
