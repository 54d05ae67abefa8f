// Package preflight validates the environment before a pipeline run:
// directory access and the presence of the external tool binaries. Missing
// required tools are a fatal precondition failure; nothing is processed.
package preflight
