// Package pages defines the in-memory page representation and reconstructs
// ordered page lists from the canonical page files on disk.
package pages

import (
	"image"
	"time"
)

// Page is a transient, in-memory document page. Pages are addressed on
// disk purely by position; Index is zero-based and determined solely by
// the page's position in the list the caller supplies.
type Page struct {
	Index     int
	Image     image.Image
	CreatedAt time.Time
}

// FromImages builds an ordered page list from raw bitmaps, assigning
// indices by position.
func FromImages(imgs []image.Image) []Page {
	now := time.Now().UTC()
	result := make([]Page, len(imgs))
	for i, img := range imgs {
		result[i] = Page{Index: i, Image: img, CreatedAt: now}
	}
	return result
}
