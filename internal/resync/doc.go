// Package resync orchestrates a full retiming run over the work tree: disc
// image ingest, archive unit extraction and repack, and the in-place audio
// offset transform for every eligible asset.
package resync
