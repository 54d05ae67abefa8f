// Package discovery locates the audio assets eligible for retiming beneath a
// directory tree, applying the game's path and naming conventions.
package discovery
