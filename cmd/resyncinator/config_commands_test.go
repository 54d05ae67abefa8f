package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := `
[paths]
work_dir = "` + filepath.Join(base, "work") + `"
staging_dir = "` + filepath.Join(base, "staging") + `"
log_dir = "` + filepath.Join(base, "logs") + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected output to name %s, got %q", target, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config written: %v", err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := execute(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("first init returned error: %v", err)
	}
	if _, err := execute(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := execute(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite returned error: %v", err)
	}
}

func TestDepsCommandRendersChecks(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t), "deps")
	if err != nil {
		t.Fatalf("deps returned error: %v", err)
	}
	for _, name := range []string{"arkhelper", "rockaudio", "7z", "imgburn", "ps2master"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in deps output, got:\n%s", name, out)
		}
	}
}

func TestReportCommandWithEmptyJournal(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t), "report")
	if err != nil {
		t.Fatalf("report returned error: %v", err)
	}
	if !strings.Contains(out, "No runs recorded yet") {
		t.Fatalf("expected empty-journal message, got %q", out)
	}
}

func TestRunFailsFastWithoutRequiredTools(t *testing.T) {
	if _, err := execute(t, "--config", writeTestConfig(t), "run"); err == nil {
		t.Fatal("expected preflight failure without tool binaries")
	}
}
