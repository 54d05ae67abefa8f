// Package logging assembles the structured slog loggers used across
// resyncinator.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the current run, archive unit, and asset. A no-op logger is
// available for tests and wiring code that cannot fail.
package logging
