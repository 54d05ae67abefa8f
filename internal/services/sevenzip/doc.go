// Package sevenzip mediates access to the 7-Zip CLI used to unpack disc
// images into the working tree at the start of a run.
package sevenzip
