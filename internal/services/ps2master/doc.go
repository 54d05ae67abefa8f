// Package ps2master mediates access to the mastering CLI that patches an
// authored disc image's boot sectors after ImgBurn finishes.
package ps2master
