package author_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"resyncinator/internal/author"
	"resyncinator/internal/iso"
	"resyncinator/internal/logging"
	"resyncinator/internal/services"
	"resyncinator/internal/services/imgburn"
	"resyncinator/internal/testsupport"
)

type stubBuilder struct {
	err error
	req imgburn.BuildRequest
}

func (s *stubBuilder) Build(ctx context.Context, req imgburn.BuildRequest) error {
	s.req = req
	if s.err != nil {
		return s.err
	}
	// The real tool writes the image into its working directory.
	return os.WriteFile(filepath.Join(req.WorkDir, req.Dest), []byte("iso"), 0o644)
}

type stubMasterer struct {
	err  error
	path string
}

func (s *stubMasterer) Master(ctx context.Context, isoPath string) error {
	s.path = isoPath
	return s.err
}

func newWorkTree(t *testing.T) string {
	t.Helper()
	work := filepath.Join(t.TempDir(), "work")
	testsupport.WriteFile(t, filepath.Join(work, author.BootDescriptorName), []byte("BOOT2 = cdrom0:\\SLUS_215.86;1\n"))
	testsupport.WriteFile(t, filepath.Join(work, "GEN", "MAIN.HDR"), []byte("h"))
	testsupport.WriteFile(t, filepath.Join(work, "SLUS_215.86"), []byte("elf"))
	testsupport.WriteFile(t, filepath.Join(work, ".hidden"), []byte("x"))
	testsupport.WriteFile(t, filepath.Join(work, "leftover.iso"), []byte("old"))
	testsupport.WriteFile(t, filepath.Join(work, iso.ProcessedDirName, "game.iso"), []byte("old"))
	return work
}

func newSettings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imgburn.ini")
	testsupport.WriteFile(t, path, []byte("[settings]"))
	return path
}

func TestAuthorBuildsMovesAndMasters(t *testing.T) {
	work := newWorkTree(t)
	builder := &stubBuilder{}
	masterer := &stubMasterer{}
	authorer := author.NewAuthorer(builder, masterer, newSettings(t), logging.NewNop())

	isoPath, err := authorer.Author(context.Background(), work)
	if err != nil {
		t.Fatalf("Author returned error: %v", err)
	}

	wantPath := filepath.Join(filepath.Dir(work), "SLUS_215.86.iso")
	if isoPath != wantPath {
		t.Fatalf("iso path = %q, want %q", isoPath, wantPath)
	}
	if _, err := os.Stat(isoPath); err != nil {
		t.Fatalf("expected image at final location: %v", err)
	}
	if masterer.path != isoPath {
		t.Fatalf("masterer ran on %q, want %q", masterer.path, isoPath)
	}

	if builder.req.VolumeLabel != "SLUS_215.86" {
		t.Fatalf("volume label = %q", builder.req.VolumeLabel)
	}
	wantSources := []string{"GEN", "SLUS_215.86", author.BootDescriptorName}
	if len(builder.req.Sources) != len(wantSources) {
		t.Fatalf("sources = %v, want %v", builder.req.Sources, wantSources)
	}
	for i, source := range wantSources {
		if builder.req.Sources[i] != source {
			t.Fatalf("sources = %v, want %v", builder.req.Sources, wantSources)
		}
	}

	// Staged settings are removed after the build.
	if _, err := os.Stat(filepath.Join(work, "imgburn.ini")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected staged settings removed, stat err=%v", err)
	}
}

func TestAuthorAbortsWithoutBootDescriptor(t *testing.T) {
	work := filepath.Join(t.TempDir(), "work")
	testsupport.WriteFile(t, filepath.Join(work, "GEN", "MAIN.HDR"), []byte("h"))
	authorer := author.NewAuthorer(&stubBuilder{}, &stubMasterer{}, newSettings(t), logging.NewNop())

	_, err := authorer.Author(context.Background(), work)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestAuthorSurfacesBuildFailure(t *testing.T) {
	work := newWorkTree(t)
	builder := &stubBuilder{err: errors.New("build failed")}
	masterer := &stubMasterer{}
	authorer := author.NewAuthorer(builder, masterer, newSettings(t), logging.NewNop())

	_, err := authorer.Author(context.Background(), work)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if masterer.path != "" {
		t.Fatal("masterer must not run after failed build")
	}
}

func TestAuthorReportsMasteringFailureWithImagePath(t *testing.T) {
	work := newWorkTree(t)
	builder := &stubBuilder{}
	masterer := &stubMasterer{err: errors.New("sector rewrite failed")}
	authorer := author.NewAuthorer(builder, masterer, newSettings(t), logging.NewNop())

	isoPath, err := authorer.Author(context.Background(), work)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if isoPath == "" {
		t.Fatal("expected built image path even when mastering fails")
	}
	if _, statErr := os.Stat(isoPath); statErr != nil {
		t.Fatalf("expected image preserved: %v", statErr)
	}
}
