package sevenzip_test

import (
	"context"
	"testing"

	"resyncinator/internal/services/sevenzip"
)

type stubExecutor struct {
	err  error
	args [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, dir string, onOutput func(string)) error {
	s.args = append(s.args, append([]string(nil), args...))
	return s.err
}

func TestExtractArgs(t *testing.T) {
	exec := &stubExecutor{}
	client, err := sevenzip.New("7z", sevenzip.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Extract(context.Background(), "/work/game.iso", "/work"); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	got := exec.args[0]
	want := []string{"x", "/work/game.iso", "-o/work", "-y"}
	if len(got) != len(want) {
		t.Fatalf("unexpected args: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected args: got %v want %v", got, want)
		}
	}
}

func TestExtractRequiresInputs(t *testing.T) {
	client, err := sevenzip.New("7z", sevenzip.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Extract(context.Background(), "", "/out"); err == nil {
		t.Fatal("expected error for empty image path")
	}
	if err := client.Extract(context.Background(), "/a.iso", ""); err == nil {
		t.Fatal("expected error for empty output directory")
	}
}
