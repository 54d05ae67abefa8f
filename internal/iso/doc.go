// Package iso ingests monolithic disc images found in the working tree,
// extracting their contents in place and retiring consumed images into a
// processed subfolder.
package iso
