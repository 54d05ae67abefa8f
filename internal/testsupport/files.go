package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"resyncinator/internal/wav"
)

// WriteFile fills the target path with content, creating parent directories
// as needed.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteWAV writes a PCM WAV file at path with the given shape. Frame payloads
// cycle through a deterministic byte pattern so tests can verify which region
// of the original stream survived a transform.
func WriteWAV(t testing.TB, path string, channels, sampleWidth, frameRate int, frames int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	format := wav.Format{
		Channels:    channels,
		SampleWidth: sampleWidth,
		FrameRate:   frameRate,
		Frames:      frames,
		Codec:       wav.CodecPCM,
	}
	writer, err := wav.Create(path, format)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}

	frameSize := format.FrameSize()
	buf := make([]byte, frameSize)
	for frame := int64(0); frame < frames; frame++ {
		for i := range buf {
			buf[i] = byte(frame)
		}
		if _, err := writer.Write(buf); err != nil {
			t.Fatalf("write frames to %s: %v", path, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}
