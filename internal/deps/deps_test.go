package deps_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"resyncinator/internal/deps"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestCheckBinariesPathAndLookup(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bit semantics differ on windows")
	}
	tmp := t.TempDir()
	present := filepath.Join(tmp, "arkhelper")
	writeExecutable(t, present)
	nonExec := filepath.Join(tmp, "rockaudio")
	if err := os.WriteFile(nonExec, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "arkhelper", Command: present},
		{Name: "rockaudio", Command: nonExec},
		{Name: "seven", Command: filepath.Join(tmp, "missing")},
		{Name: "shell", Command: "sh"},
		{Name: "unset", Command: ""},
	})

	byName := map[string]deps.Status{}
	for _, status := range statuses {
		byName[status.Name] = status
	}
	if !byName["arkhelper"].Available {
		t.Fatalf("expected executable file available: %+v", byName["arkhelper"])
	}
	if byName["rockaudio"].Available {
		t.Fatal("non-executable file must not count as available")
	}
	if byName["seven"].Available {
		t.Fatal("missing file must not count as available")
	}
	if !byName["shell"].Available {
		t.Fatal("expected sh resolvable via PATH")
	}
	if byName["unset"].Available || byName["unset"].Detail == "" {
		t.Fatalf("unset command should fail with detail: %+v", byName["unset"])
	}
}

func TestMissingRequiredIgnoresOptional(t *testing.T) {
	statuses := []deps.Status{
		{Name: "required-ok", Available: true},
		{Name: "required-missing", Available: false},
		{Name: "optional-missing", Available: false, Optional: true},
	}
	missing := deps.MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "required-missing" {
		t.Fatalf("unexpected missing set: %+v", missing)
	}
}
