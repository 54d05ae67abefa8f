// Package services holds the shared plumbing for the external tool clients:
// sentinel error markers with wrapping helpers, context annotations used for
// structured logging, and the command executor abstraction the per-tool
// packages build on.
package services
