// Package ark models archive units (HDR header plus ARK data files) and the
// workspaces they are extracted into.
//
// A workspace is created per unit under the staging directory, keyed by a
// UUID so concurrently-named units can never collide. Its unpack marker is
// the sole signal that extraction succeeded: repack is refused without it,
// which keeps a failed or partial extraction from overwriting a good archive.
package ark
