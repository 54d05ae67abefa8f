// Package deps inventories the external tool binaries the pipeline shells
// out to and reports their availability.
package deps
