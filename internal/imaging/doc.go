// Package imaging provides the image-side collaborators of the metrics
// pipeline: file loading, per-channel normalization and thresholding that
// produce the binary masks consumed by the contour tracer, and rendering
// of diagnostic overlay images.
//
// All operations work with standard Go image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward,
// and Y increases downward. Channel planes and binary masks are
// *image.Gray; in a mask, foreground pixels are 255 and background 0.
//
// Operations are stateless and safe to call concurrently on different
// images.
package imaging
