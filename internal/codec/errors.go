// Package codec converts in-memory page rasters to and from compressed
// files and renders page sets into paginated PDF documents.
package codec

import "errors"

// Codec errors.
var (
	// ErrEncodingFailed indicates the encoder rejected a bitmap, including
	// images with zero width or height.
	ErrEncodingFailed = errors.New("codec: jpeg encoding failed")

	// ErrDecodeFailed indicates a file is missing, truncated, or not a
	// recognizable raster image.
	ErrDecodeFailed = errors.New("codec: image decode failed")

	// ErrRenderFailed indicates PDF or thumbnail rendering failed.
	ErrRenderFailed = errors.New("codec: render failed")
)
