package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resyncinator/internal/services"
)

func TestWrapTagsWithMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "ark", "unpack", "archive tool failed", cause)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool tag, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause preserved, got %v", err)
	}
	for _, fragment := range []string{"ark", "unpack", "archive tool failed", "exit status 1"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error, got %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "c", "op", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestWrapWithoutDetailStillDescribes(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestContextCarriesRunUnitAsset(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("empty context should carry no run id")
	}

	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithUnit(ctx, "/gen/MAIN.HDR")
	ctx = services.WithAsset(ctx, "/songs/track1.vgs")

	if got, ok := services.RunIDFromContext(ctx); !ok || got != "run-1" {
		t.Fatalf("run id = %q, %v", got, ok)
	}
	if got, ok := services.UnitFromContext(ctx); !ok || got != "/gen/MAIN.HDR" {
		t.Fatalf("unit = %q, %v", got, ok)
	}
	if got, ok := services.AssetFromContext(ctx); !ok || got != "/songs/track1.vgs" {
		t.Fatalf("asset = %q, %v", got, ok)
	}
}

func TestWithRunIDIgnoresEmpty(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("empty run id must not be stored")
	}
}
