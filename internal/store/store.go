package store

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Davidmarkwilcox/ScannerApp/internal/codec"
	"github.com/Davidmarkwilcox/ScannerApp/internal/config"
	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/Davidmarkwilcox/ScannerApp/internal/locks"
	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/Davidmarkwilcox/ScannerApp/internal/ocr"
	"github.com/Davidmarkwilcox/ScannerApp/internal/pages"
	"github.com/google/uuid"
)

// maxPages is the largest page set the zero-padded 3-digit canonical
// naming supports with correct lexicographic ordering.
const maxPages = 999

// canonicalPagePattern matches the canonical page files this store owns
// under pages/.
var canonicalPagePattern = regexp.MustCompile(`^\d{3}\.jpg$`)

// SaveResult reports the outcome of a successful save or finalize.
type SaveResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	RootPath   string    `json:"root_path"`
	PageCount  int       `json:"page_count"`
}

// Store orchestrates the draft lifecycle over the on-disk layout.
// Operations on the same document id are serialized by the shared
// per-document lock; operations on distinct ids run concurrently.
type Store struct {
	layout *layout.Layout
	loader *pages.Loader
	texts  *ocr.Store
	render config.RenderConfig
	locks  *locks.Keyed
	logger *slog.Logger
}

// New creates a draft store over the given layout. The lock table must
// be shared with every other subsystem that writes document files.
func New(l *layout.Layout, loader *pages.Loader, texts *ocr.Store, render config.RenderConfig, lockTable *locks.Keyed, logger *slog.Logger) *Store {
	return &Store{
		layout: l,
		loader: loader,
		texts:  texts,
		render: render,
		locks:  lockTable,
		logger: logger.With("system", "store"),
	}
}

// SaveDraft durably persists the supplied page set as the document's
// canonical pages. A uuid.Nil id mints a new document; an existing id
// overwrites its pages without creating duplicates. Title and creation
// time are preserved on update, and a state already past Draft is never
// regressed.
func (s *Store) SaveDraft(ctx context.Context, id uuid.UUID, pgs []pages.Page) (*SaveResult, error) {
	if err := validatePages(pgs); err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	root, err := s.layout.DocumentRoot(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.layout.OutputDir(id); err != nil {
		return nil, err
	}

	now := metadata.Now()
	doc := s.loadOrSynthesize(id, now)
	doc.ModifiedAt = now
	doc.PageCount = len(pgs)

	if err := metadata.Write(s.layout.MetadataPath(id), doc); err != nil {
		return nil, err
	}

	if err := s.writeThumbnail(id, pgs[0].Image); err != nil {
		return nil, err
	}

	if err := s.writePages(id, pgs); err != nil {
		return nil, err
	}

	s.logger.Info("draft saved", "document_id", id, "page_count", len(pgs), "state", doc.State)
	return &SaveResult{DocumentID: id, RootPath: root, PageCount: len(pgs)}, nil
}

// Finalize overwrites the canonical pages, renders the paginated PDF,
// atomically publishes it, and advances the document to SavedLocal.
func (s *Store) Finalize(ctx context.Context, id uuid.UUID, pgs []pages.Page) (*SaveResult, error) {
	if err := validatePages(pgs); err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	root, err := s.layout.DocumentRoot(id)
	if err != nil {
		return nil, err
	}

	if err := s.writePages(id, pgs); err != nil {
		return nil, err
	}

	imgs := make([]image.Image, len(pgs))
	for i, p := range pgs {
		imgs[i] = p.Image
	}

	if err := s.publishPDF(id, imgs); err != nil {
		return nil, err
	}

	if err := s.advanceSaved(id, len(pgs)); err != nil {
		return nil, err
	}

	s.logger.Info("document finalized", "document_id", id, "page_count", len(pgs))
	return &SaveResult{DocumentID: id, RootPath: root, PageCount: len(pgs)}, nil
}

// PDFForSharing returns the canonical PDF path, generating the PDF from
// the on-disk canonical pages when it does not exist. An existing PDF is
// returned unchanged even if pages changed since its last render. The
// directory listing, not metadata.page_count, is the ground truth when
// reconstructing.
func (s *Store) PDFForSharing(ctx context.Context, id uuid.UUID) (string, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	pdfPath := s.layout.PDFPath(id)
	if info, err := os.Stat(pdfPath); err == nil && !info.IsDir() {
		return pdfPath, nil
	}

	dir := s.layout.PagesPath(id)
	names, err := listPageFiles(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("list pages %s: %w", dir, err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyPages, dir)
	}

	imgs := make([]image.Image, len(names))
	for i, name := range names {
		img, err := codec.DecodeImage(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrLoadPersistedPage, name, err)
		}
		imgs[i] = img
	}

	if err := s.publishPDF(id, imgs); err != nil {
		return "", err
	}

	if err := s.advanceSaved(id, len(imgs)); err != nil {
		return "", err
	}

	s.logger.Info("pdf reconstructed", "document_id", id, "page_count", len(imgs))
	return pdfPath, nil
}

// PDFForSharingNamed wraps PDFForSharing and copies the canonical PDF to
// a transient file carrying a sanitized, human-readable name for share
// targets. The copy is disposable and not part of the durable store.
func (s *Store) PDFForSharingNamed(ctx context.Context, id uuid.UUID, preferred string) (string, error) {
	canonical, err := s.PDFForSharing(ctx, id)
	if err != nil {
		return "", err
	}

	shareDir, err := os.MkdirTemp("", "scan-share-*")
	if err != nil {
		return "", fmt.Errorf("create share directory: %w", err)
	}

	sharePath := filepath.Join(shareDir, sanitizeShareName(preferred))
	if err := copyFile(canonical, sharePath); err != nil {
		os.RemoveAll(shareDir)
		return "", fmt.Errorf("copy pdf for sharing: %w", err)
	}

	return sharePath, nil
}

// PageImagePaths returns the canonical page file paths in reconstruction
// order. It generates nothing.
func (s *Store) PageImagePaths(ctx context.Context, id uuid.UUID) ([]string, error) {
	dir := s.layout.PagesPath(id)
	names, err := listPageFiles(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list pages %s: %w", dir, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPages, dir)
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// Title returns the document title from the sidecar. It is a best-effort
// read: any failure reports ("", false) rather than an error.
func (s *Store) Title(ctx context.Context, id uuid.UUID) (string, bool) {
	doc, err := metadata.Read(s.layout.MetadataPath(id))
	if err != nil {
		return "", false
	}
	return doc.Title, true
}

// Recognize loads the canonical pages, runs the external recognizer over
// them, and persists the result as the document's text sidecar.
func (s *Store) Recognize(ctx context.Context, id uuid.UUID, rec ocr.Recognizer) (*ocr.Result, error) {
	pgs, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	fullText, pageTexts, err := rec.Recognize(ctx, pgs)
	if err != nil {
		return nil, fmt.Errorf("recognize document %s: %w", id, err)
	}

	result := &ocr.Result{
		DocumentID:   id,
		FullText:     fullText,
		PageTexts:    pageTexts,
		RecognizedAt: metadata.Now(),
	}

	if err := s.texts.Write(result); err != nil {
		return nil, err
	}

	s.logger.Info("text recognized", "document_id", id, "pages", len(pageTexts))
	return result, nil
}

// TextResult reads the persisted recognized-text sidecar.
func (s *Store) TextResult(ctx context.Context, id uuid.UUID) (*ocr.Result, error) {
	return s.texts.Read(id)
}

// PersistTextResult stores an externally produced recognition result.
func (s *Store) PersistTextResult(ctx context.Context, result *ocr.Result) error {
	return s.texts.Write(result)
}

// loadOrSynthesize returns the existing sidecar record, or a fresh Draft
// record with a timestamp-derived title when none can be read.
func (s *Store) loadOrSynthesize(id uuid.UUID, now metadata.Timestamp) *metadata.Document {
	path := s.layout.MetadataPath(id)
	doc, err := metadata.Read(path)
	if err == nil {
		return doc
	}

	if _, statErr := os.Stat(path); statErr == nil {
		s.logger.Warn("unreadable metadata replaced", "document_id", id, "error", err)
	}

	return &metadata.Document{
		ID:         id,
		Title:      metadata.DefaultTitle(now.Time),
		CreatedAt:  now,
		ModifiedAt: now,
		State:      metadata.StateDraft,
	}
}

// advanceSaved updates the sidecar after PDF publication: page count,
// modification time, and a monotonic advance to SavedLocal.
func (s *Store) advanceSaved(id uuid.UUID, pageCount int) error {
	now := metadata.Now()
	doc := s.loadOrSynthesize(id, now)
	doc.ModifiedAt = now
	doc.PageCount = pageCount
	doc.State = doc.State.Advance(metadata.StateSavedLocal)
	return metadata.Write(s.layout.MetadataPath(id), doc)
}

// writeThumbnail renders the thumbnail from the first page, falling back
// to a full-size re-encode at the fallback quality before failing.
func (s *Store) writeThumbnail(id uuid.UUID, first image.Image) error {
	path := s.layout.ThumbnailPath(id)

	data, err := codec.RenderThumbnail(first, s.render.ThumbnailMaxDim, s.render.ThumbnailQuality)
	if err != nil {
		s.logger.Warn("thumbnail render failed, falling back to re-encode", "document_id", id, "error", err)
		data, err = codec.EncodeJPEG(first, s.render.FallbackQuality)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrThumbnailWrite, path, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrThumbnailWrite, path, err)
	}

	return nil
}

// writePages clears the existing canonical page files and writes the
// supplied pages in list order as 001.jpg, 002.jpg, ... A mid-loop
// encode failure leaves already written pages on disk; a retry with the
// same id overwrites from position 1 and converges.
func (s *Store) writePages(id uuid.UUID, pgs []pages.Page) error {
	dir, err := s.layout.PagesDir(id)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read pages directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && canonicalPagePattern.MatchString(entry.Name()) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("clear page %s: %w", entry.Name(), err)
			}
		}
	}

	for i, p := range pgs {
		data, err := codec.EncodeJPEG(p.Image, s.render.JPEGQuality)
		if err != nil {
			return fmt.Errorf("%w: index %d: %v", ErrEncodePage, i, err)
		}
		if err := os.WriteFile(s.layout.PagePath(id, i+1), data, 0644); err != nil {
			return fmt.Errorf("write page %d: %w", i+1, err)
		}
	}

	return nil
}

// publishPDF renders the paginated document to a temporary file inside
// output/ and atomically replaces document.pdf, so readers never observe
// a half-written PDF.
func (s *Store) publishPDF(id uuid.UUID, imgs []image.Image) error {
	outputDir, err := s.layout.OutputDir(id)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(outputDir, ".document-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrPDFRender, err)
	}
	tmpPath := tmp.Name()

	if err := codec.RenderPDF(tmp, imgs, s.render.PDFForm, s.render.JPEGQuality); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrPDFRender, s.layout.PDFPath(id), err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp: %v", ErrPDFRender, err)
	}

	if err := os.Rename(tmpPath, s.layout.PDFPath(id)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: publish: %v", ErrPDFRender, err)
	}

	return nil
}

func validatePages(pgs []pages.Page) error {
	if len(pgs) == 0 {
		return ErrEmptyPages
	}
	if len(pgs) > maxPages {
		return fmt.Errorf("%w: %d pages", ErrTooManyPages, len(pgs))
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
