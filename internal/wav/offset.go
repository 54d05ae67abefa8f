package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrTooShort reports a trim request longer than the source track.
var ErrTooShort = errors.New("source too short to trim")

// OffsetFrames converts a millisecond offset into whole frames at frameRate,
// rounding toward zero.
func OffsetFrames(frameRate, offsetMs int) int64 {
	ms := int64(offsetMs)
	if ms < 0 {
		ms = -ms
	}
	return int64(frameRate) * ms / 1000
}

// ApplyOffset writes a copy of srcPath to dstPath shifted by offsetMs.
// Negative offsets trim frames from the start, positive offsets prepend
// silence, zero copies the payload unchanged. Format metadata is carried over
// exactly; payload bytes are never resampled or converted. On failure no
// destination file is left behind.
func ApplyOffset(srcPath, dstPath string, offsetMs int) error {
	reader, err := Open(srcPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	format := reader.Format()
	offsetFrames := OffsetFrames(format.FrameRate, offsetMs)

	var silence int64
	outFormat := format
	switch {
	case offsetMs < 0:
		if offsetFrames >= format.Frames {
			return fmt.Errorf("%w: trim of %d frames but only %d available", ErrTooShort, offsetFrames, format.Frames)
		}
		if err := reader.SeekFrame(offsetFrames); err != nil {
			return err
		}
		outFormat.Frames = format.Frames - offsetFrames
	case offsetMs > 0:
		silence = offsetFrames * int64(format.FrameSize())
		outFormat.Frames = format.Frames + offsetFrames
	}

	writer, err := Create(dstPath, outFormat)
	if err != nil {
		return err
	}

	if err := copyPayload(writer, reader, silence); err != nil {
		_ = writer.file.Close()
		_ = os.Remove(dstPath)
		return err
	}
	if err := writer.Close(); err != nil {
		_ = os.Remove(dstPath)
		return err
	}
	return nil
}

func copyPayload(writer *Writer, reader *Reader, silence int64) error {
	if silence > 0 {
		zeros := make([]byte, 32*1024)
		remaining := silence
		for remaining > 0 {
			chunk := int64(len(zeros))
			if remaining < chunk {
				chunk = remaining
			}
			if _, err := writer.Write(zeros[:chunk]); err != nil {
				return err
			}
			remaining -= chunk
		}
	}
	if _, err := io.Copy(writer, reader); err != nil {
		return err
	}
	return nil
}
