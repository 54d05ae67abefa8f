// Package main hosts the resyncinator CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration resolution, structured
// logging, and the external tool clients into the resync pipeline, the run
// journal report, and the dependency checks. Subcommands stay declarative;
// the heavy lifting lives in the internal packages.
package main
