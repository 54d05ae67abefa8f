// Package journal persists the outcome of every pipeline run to SQLite: one
// row per run, per archive unit, and per audio asset. The report command
// renders this data after the fact; the pipeline itself never reads it back.
package journal
