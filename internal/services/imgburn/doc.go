// Package imgburn mediates access to the ImgBurn CLI used to author the
// final ISO9660+UDF disc image from the working tree.
package imgburn
