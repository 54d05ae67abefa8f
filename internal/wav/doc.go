// Package wav reads and writes RIFF/WAVE PCM containers and implements the
// sample-accurate offset transform at the core of the resync pipeline.
//
// The transform works at frame granularity: a negative offset trims whole
// frames from the start of the track, a positive offset prepends frames of
// silence. Payload bytes are copied verbatim; format metadata (channel count,
// sample width, frame rate, compression tag) is preserved exactly.
package wav
