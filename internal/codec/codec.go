package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"

	_ "image/png" // registered for DecodeImage

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdf "github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/image/draw"
)

// EncodeJPEG encodes an image to JPEG bytes at the given quality (1-100).
// Encoding is deterministic for identical input bitmap and quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrEncodingFailed)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	return buf.Bytes(), nil
}

// DecodeImage reads and decodes a raster image file.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
	}

	return img, nil
}

// RenderThumbnail downscales an image so its longer side is at most maxDim,
// preserving aspect ratio, and encodes the result as JPEG. Images already
// within bounds are re-encoded without upscaling.
func RenderThumbnail(img image.Image, maxDim, quality int) ([]byte, error) {
	if img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrRenderFailed)
	}
	if maxDim < 1 {
		return nil, fmt.Errorf("%w: max dimension %d", ErrRenderFailed, maxDim)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	longer := w
	if h > w {
		longer = h
	}

	if longer > maxDim {
		scale := float64(maxDim) / float64(longer)
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}

		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	data, err := EncodeJPEG(img, quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return data, nil
}

// RenderPDF renders one PDF page per input image onto the named form
// (e.g. "letter", 612x792 points). Each image is scaled to fit entirely
// within the page, preserving aspect ratio and centered on both axes.
// The caller is responsible for atomic publication of the output.
func RenderPDF(w io.Writer, pages []image.Image, form string, quality int) error {
	if len(pages) == 0 {
		return fmt.Errorf("%w: no pages", ErrRenderFailed)
	}

	imp, err := pdf.ParseImportDetails(fmt.Sprintf("form:%s, pos:c, sc:1.0 rel", form), types.POINTS)
	if err != nil {
		return fmt.Errorf("%w: import details: %v", ErrRenderFailed, err)
	}

	readers := make([]io.Reader, 0, len(pages))
	for i, img := range pages {
		data, err := EncodeJPEG(img, quality)
		if err != nil {
			return fmt.Errorf("%w: page %d: %v", ErrRenderFailed, i+1, err)
		}
		readers = append(readers, bytes.NewReader(data))
	}

	if err := api.ImportImages(nil, w, readers, imp, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return nil
}

// PDFPageCount reports the number of pages in a rendered PDF.
func PDFPageCount(rs io.ReadSeeker) (int, error) {
	count, err := api.PageCount(rs, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return count, nil
}
