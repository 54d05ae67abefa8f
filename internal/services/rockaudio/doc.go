// Package rockaudio mediates access to the codec CLI that converts between
// the game's proprietary VGS audio container and WAV, the intermediate format
// the offset transform operates on.
package rockaudio
