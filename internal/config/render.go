package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// EnvRenderJPEGQuality overrides the canonical page JPEG quality.
	EnvRenderJPEGQuality = "SCANNER_RENDER_JPEG_QUALITY"

	// EnvRenderPDFForm overrides the PDF page form.
	EnvRenderPDFForm = "SCANNER_RENDER_PDF_FORM"
)

// RenderConfig contains page encoding and artifact rendering configuration.
type RenderConfig struct {
	// JPEGQuality is the quality used for canonical page files (1-100).
	JPEGQuality int `toml:"jpeg_quality"`

	// ThumbnailMaxDim bounds the longer side of the rendered thumbnail.
	ThumbnailMaxDim int `toml:"thumbnail_max_dim"`

	// ThumbnailQuality is the JPEG quality for the rendered thumbnail.
	ThumbnailQuality int `toml:"thumbnail_quality"`

	// FallbackQuality is the JPEG quality used when thumbnail rendering
	// fails and the full-size page is re-encoded instead.
	FallbackQuality int `toml:"fallback_quality"`

	// PDFForm is the pdfcpu page form for rendered documents (e.g. "letter").
	PDFForm string `toml:"pdf_form"`
}

// Finalize applies defaults, loads environment overrides, and validates the render configuration.
func (c *RenderConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *RenderConfig) Merge(overlay *RenderConfig) {
	if overlay.JPEGQuality != 0 {
		c.JPEGQuality = overlay.JPEGQuality
	}
	if overlay.ThumbnailMaxDim != 0 {
		c.ThumbnailMaxDim = overlay.ThumbnailMaxDim
	}
	if overlay.ThumbnailQuality != 0 {
		c.ThumbnailQuality = overlay.ThumbnailQuality
	}
	if overlay.FallbackQuality != 0 {
		c.FallbackQuality = overlay.FallbackQuality
	}
	if overlay.PDFForm != "" {
		c.PDFForm = overlay.PDFForm
	}
}

func (c *RenderConfig) loadDefaults() {
	if c.JPEGQuality == 0 {
		c.JPEGQuality = 90
	}
	if c.ThumbnailMaxDim == 0 {
		c.ThumbnailMaxDim = 256
	}
	if c.ThumbnailQuality == 0 {
		c.ThumbnailQuality = 85
	}
	if c.FallbackQuality == 0 {
		c.FallbackQuality = 65
	}
	if c.PDFForm == "" {
		c.PDFForm = "letter"
	}
}

func (c *RenderConfig) loadEnv() {
	if v := os.Getenv(EnvRenderJPEGQuality); v != "" {
		if q, err := strconv.Atoi(v); err == nil {
			c.JPEGQuality = q
		}
	}
	if v := os.Getenv(EnvRenderPDFForm); v != "" {
		c.PDFForm = v
	}
}

func (c *RenderConfig) validate() error {
	for name, q := range map[string]int{
		"jpeg_quality":      c.JPEGQuality,
		"thumbnail_quality": c.ThumbnailQuality,
		"fallback_quality":  c.FallbackQuality,
	} {
		if q < 1 || q > 100 {
			return fmt.Errorf("%s must be between 1 and 100", name)
		}
	}
	if c.ThumbnailMaxDim < 16 {
		return fmt.Errorf("thumbnail_max_dim must be at least 16")
	}
	return nil
}
