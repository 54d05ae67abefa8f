package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// CodecPCM is the RIFF format tag for uncompressed linear PCM.
const CodecPCM uint16 = 1

// Format describes a WAV stream's metadata. SampleWidth is bytes per sample
// per channel; Frames is the total frame count carried by the data chunk.
type Format struct {
	Channels    int
	SampleWidth int
	FrameRate   int
	Frames      int64
	Codec       uint16
	CodecName   string
}

// FrameSize returns the byte width of one frame across all channels.
func (f Format) FrameSize() int {
	return f.Channels * f.SampleWidth
}

func codecName(tag uint16) string {
	if tag == CodecPCM {
		return "PCM"
	}
	return fmt.Sprintf("format 0x%04x", tag)
}

// Reader exposes a WAV file's format and a sequential reader over its frames.
type Reader struct {
	file       *os.File
	dataOffset int64
	dataSize   int64
	fmt        Format
}

// Open parses path's RIFF/WAVE header and positions the reader at the first
// frame.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader := &Reader{file: file}
	if err := reader.readHeader(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return reader, nil
}

// Format returns the stream metadata.
func (r *Reader) Format() Format { return r.fmt }

// SeekFrame positions the reader at the given zero-based frame.
func (r *Reader) SeekFrame(frame int64) error {
	if frame < 0 || frame > r.fmt.Frames {
		return fmt.Errorf("frame %d out of range [0, %d]", frame, r.fmt.Frames)
	}
	_, err := r.file.Seek(r.dataOffset+frame*int64(r.fmt.FrameSize()), io.SeekStart)
	return err
}

// Read reads raw frame bytes, never past the end of the data chunk.
func (r *Reader) Read(p []byte) (int, error) {
	pos, err := r.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	remaining := r.dataOffset + r.dataSize - pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	return r.file.Read(p)
}

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.file.Close() }

func (r *Reader) readHeader() error {
	var riff [12]byte
	if _, err := io.ReadFull(r.file, riff[:]); err != nil {
		return fmt.Errorf("read riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return errors.New("not a RIFF/WAVE file")
	}

	var haveFmt bool
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r.file, chunk[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return errors.New("missing data chunk")
			}
			return fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return fmt.Errorf("fmt chunk too small: %d bytes", size)
			}
			var raw [16]byte
			if _, err := io.ReadFull(r.file, raw[:]); err != nil {
				return fmt.Errorf("read fmt chunk: %w", err)
			}
			r.fmt.Codec = binary.LittleEndian.Uint16(raw[0:2])
			r.fmt.Channels = int(binary.LittleEndian.Uint16(raw[2:4]))
			r.fmt.FrameRate = int(binary.LittleEndian.Uint32(raw[4:8]))
			bitsPerSample := int(binary.LittleEndian.Uint16(raw[14:16]))
			r.fmt.SampleWidth = (bitsPerSample + 7) / 8
			r.fmt.CodecName = codecName(r.fmt.Codec)
			if r.fmt.Channels <= 0 || r.fmt.FrameRate <= 0 || r.fmt.SampleWidth <= 0 {
				return fmt.Errorf("invalid format: channels=%d rate=%d width=%d",
					r.fmt.Channels, r.fmt.FrameRate, r.fmt.SampleWidth)
			}
			// Skip any fmt extension bytes, honoring even-byte chunk padding.
			if extra := size - 16; extra > 0 {
				if _, err := r.file.Seek(extra+extra&1, io.SeekCurrent); err != nil {
					return err
				}
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return errors.New("data chunk precedes fmt chunk")
			}
			pos, err := r.file.Seek(0, io.SeekCurrent)
			if err != nil {
				return err
			}
			r.dataOffset = pos
			frameSize := int64(r.fmt.FrameSize())
			r.fmt.Frames = size / frameSize
			// Ignore trailing bytes that do not fill a whole frame so the
			// reader never delivers a partial frame.
			r.dataSize = r.fmt.Frames * frameSize
			return nil
		default:
			// Chunks are padded to even byte boundaries.
			if _, err := r.file.Seek(size+size&1, io.SeekCurrent); err != nil {
				return err
			}
		}
	}
}

// ReadInfo parses only the format metadata of the WAV file at path.
func ReadInfo(path string) (Format, error) {
	reader, err := Open(path)
	if err != nil {
		return Format{}, err
	}
	defer reader.Close()
	return reader.Format(), nil
}

// Writer streams frames into a WAV file whose sizes are known up front. The
// header is written at creation; Close verifies the payload matched.
type Writer struct {
	file    *os.File
	fmt     Format
	written int64
	expect  int64
}

// Create writes the canonical header for format (whose Frames field states
// the final frame count) and returns a Writer for the payload bytes.
func Create(path string, format Format) (*Writer, error) {
	if format.Channels <= 0 || format.SampleWidth <= 0 || format.FrameRate <= 0 {
		return nil, fmt.Errorf("invalid format: %+v", format)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	dataSize := format.Frames * int64(format.FrameSize())
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], format.Codec)
	binary.LittleEndian.PutUint16(header[22:24], uint16(format.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(format.FrameRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(format.FrameRate*format.FrameSize()))
	binary.LittleEndian.PutUint16(header[32:34], uint16(format.FrameSize()))
	binary.LittleEndian.PutUint16(header[34:36], uint16(format.SampleWidth*8))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := file.Write(header); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return &Writer{file: file, fmt: format, expect: dataSize}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	w.written += int64(n)
	return n, err
}

// Close flushes the file and fails when the payload size does not match the
// frame count declared in the header.
func (w *Writer) Close() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	if w.written != w.expect {
		return fmt.Errorf("payload size mismatch: wrote %d bytes, header declares %d", w.written, w.expect)
	}
	return nil
}
