// Package arkhelper mediates access to the arkhelper CLI that unpacks and
// repacks the game's ARK/HDR archive pairs.
//
// Prefer this package over ad-hoc exec.Command usage so argument conventions
// and error reporting stay consistent, and so the archive unit handler can be
// tested against a fake executor.
package arkhelper
