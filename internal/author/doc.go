// Package author performs the optional disc-authoring step at the end of a
// run: it derives the volume label from the boot descriptor, builds an
// ISO9660+UDF image of the working tree, and masters the result for console
// compatibility. Failures here never affect resync results already written to
// the archive units.
package author
