// Package store orchestrates the document draft lifecycle: saving and
// finalizing page sets, and lazily deriving the thumbnail and PDF
// artifacts from the canonical pages on disk.
package store

import "errors"

// Store errors. All operations surface typed failures carrying the
// document id and file path context needed for an actionable message;
// only the explicitly best-effort reads swallow errors.
var (
	// ErrEmptyPages indicates an operation was invoked with no pages, or
	// reconstruction found no canonical page files.
	ErrEmptyPages = errors.New("store: no pages")

	// ErrTooManyPages indicates the page list exceeds the 999 pages the
	// zero-padded canonical naming supports.
	ErrTooManyPages = errors.New("store: page count exceeds 999")

	// ErrEncodePage indicates a supplied page could not be encoded to its
	// canonical JPEG file. Pages written before the failure remain on disk.
	ErrEncodePage = errors.New("store: failed to encode page")

	// ErrThumbnailWrite indicates both thumbnail rendering and the
	// full-size re-encode fallback failed.
	ErrThumbnailWrite = errors.New("store: failed to write thumbnail")

	// ErrPDFRender indicates the paginated document could not be rendered
	// or published.
	ErrPDFRender = errors.New("store: failed to render pdf")

	// ErrLoadPersistedPage indicates a canonical page file could not be
	// decoded during reconstruction.
	ErrLoadPersistedPage = errors.New("store: failed to load persisted page")
)
