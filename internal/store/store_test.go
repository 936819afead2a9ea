package store_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Davidmarkwilcox/ScannerApp/internal/codec"
	"github.com/Davidmarkwilcox/ScannerApp/internal/config"
	"github.com/Davidmarkwilcox/ScannerApp/internal/index"
	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/Davidmarkwilcox/ScannerApp/internal/locks"
	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/Davidmarkwilcox/ScannerApp/internal/ocr"
	"github.com/Davidmarkwilcox/ScannerApp/internal/pages"
	"github.com/Davidmarkwilcox/ScannerApp/internal/store"
	"github.com/google/uuid"
)

type fixture struct {
	store  *store.Store
	loader *pages.Loader
	layout *layout.Layout
	locks  *locks.Keyed
	logger *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	render := config.RenderConfig{}
	if err := render.Finalize(); err != nil {
		t.Fatalf("render.Finalize() failed: %v", err)
	}
	return newFixtureWithRender(t, render)
}

func newFixtureWithRender(t *testing.T, render config.RenderConfig) *fixture {
	t.Helper()

	l, err := layout.New(&config.StorageConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("layout.New() failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	loader := pages.NewLoader(l, logger)
	lockTable := locks.NewKeyed()

	return &fixture{
		store:  store.New(l, loader, ocr.NewStore(l), render, lockTable, logger),
		loader: loader,
		layout: l,
		locks:  lockTable,
		logger: logger,
	}
}

func solidPage(c color.RGBA) pages.Page {
	img := image.NewRGBA(image.Rect(0, 0, 48, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 48; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return pages.Page{Image: img}
}

func pageSet(colors ...color.RGBA) []pages.Page {
	pgs := make([]pages.Page, len(colors))
	for i, c := range colors {
		pgs[i] = solidPage(c)
		pgs[i].Index = i
	}
	return pgs
}

var (
	red   = color.RGBA{R: 210, A: 255}
	green = color.RGBA{G: 210, A: 255}
	blue  = color.RGBA{B: 210, A: 255}
)

func TestSaveDraft_CreatesDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	if result.DocumentID == uuid.Nil {
		t.Error("SaveDraft() did not mint a document id")
	}
	if result.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", result.PageCount)
	}

	doc, err := metadata.Read(f.layout.MetadataPath(result.DocumentID))
	if err != nil {
		t.Fatalf("metadata.Read() failed: %v", err)
	}
	if doc.State != metadata.StateDraft {
		t.Errorf("State = %q, want Draft", doc.State)
	}
	if doc.PageCount != 1 {
		t.Errorf("metadata PageCount = %d, want 1", doc.PageCount)
	}
	if !strings.HasPrefix(doc.Title, "Scan-") {
		t.Errorf("Title = %q, want timestamp-derived default", doc.Title)
	}

	if _, err := os.Stat(f.layout.ThumbnailPath(result.DocumentID)); err != nil {
		t.Errorf("thumbnail not written: %v", err)
	}
	if _, err := os.Stat(f.layout.PagePath(result.DocumentID, 1)); err != nil {
		t.Errorf("canonical page not written: %v", err)
	}
}

func TestSaveDraft_EmptyPages(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.SaveDraft(context.Background(), uuid.Nil, nil)
	if !errors.Is(err, store.ErrEmptyPages) {
		t.Errorf("SaveDraft() error = %v, want ErrEmptyPages", err)
	}
}

func TestSaveDraft_TooManyPages(t *testing.T) {
	f := newFixture(t)

	pgs := make([]pages.Page, 1000)
	for i := range pgs {
		pgs[i] = solidPage(red)
	}

	_, err := f.store.SaveDraft(context.Background(), uuid.Nil, pgs)
	if !errors.Is(err, store.ErrTooManyPages) {
		t.Errorf("SaveDraft() error = %v, want ErrTooManyPages", err)
	}
}

func TestSaveDraft_UpdatePreservesIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	created, _ := metadata.Read(f.layout.MetadataPath(first.DocumentID))

	second, err := f.store.SaveDraft(ctx, first.DocumentID, pageSet(red, green))
	if err != nil {
		t.Fatalf("second SaveDraft() failed: %v", err)
	}

	if second.DocumentID != first.DocumentID {
		t.Errorf("update minted a new id: %v != %v", second.DocumentID, first.DocumentID)
	}

	updated, err := metadata.Read(f.layout.MetadataPath(first.DocumentID))
	if err != nil {
		t.Fatalf("metadata.Read() failed: %v", err)
	}
	if updated.Title != created.Title {
		t.Errorf("Title changed on update: %q != %q", updated.Title, created.Title)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt.Time) {
		t.Errorf("CreatedAt changed on update: %v != %v", updated.CreatedAt, created.CreatedAt)
	}
	if updated.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", updated.PageCount)
	}
}

// Round-trip: pages saved and reloaded keep their order and content.
func TestSaveDraft_LoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	want := []color.RGBA{red, green, blue}
	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(want...))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	pgs, err := f.loader.Load(ctx, result.DocumentID)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(pgs) != 3 {
		t.Fatalf("Load() returned %d pages, want 3", len(pgs))
	}

	for i, p := range pgs {
		r, g, b, _ := p.Image.At(24, 32).RGBA()
		got := [3]int{int(r >> 8), int(g >> 8), int(b >> 8)}
		expect := [3]int{int(want[i].R), int(want[i].G), int(want[i].B)}
		for ch := 0; ch < 3; ch++ {
			diff := got[ch] - expect[ch]
			if diff < 0 {
				diff = -diff
			}
			if diff > 25 {
				t.Errorf("page %d channel %d = %d, want near %d", i, ch, got[ch], expect[ch])
			}
		}
	}
}

// Re-saving a shorter page set leaves no stale canonical files behind.
func TestSaveDraft_ReindexesOnMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red, green, blue))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	// Drop the middle page and save again.
	if _, err := f.store.SaveDraft(ctx, result.DocumentID, pageSet(red, blue)); err != nil {
		t.Fatalf("second SaveDraft() failed: %v", err)
	}

	entries, err := os.ReadDir(f.layout.PagesPath(result.DocumentID))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	if len(names) != 2 || names[0] != "001.jpg" || names[1] != "002.jpg" {
		t.Errorf("canonical pages = %v, want [001.jpg 002.jpg]", names)
	}
}

func TestFinalize_PublishesPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.Finalize(ctx, uuid.Nil, pageSet(red, green))
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	pdfPath := f.layout.PDFPath(result.DocumentID)
	pdf, err := os.Open(pdfPath)
	if err != nil {
		t.Fatalf("published pdf missing: %v", err)
	}
	defer pdf.Close()

	count, err := codec.PDFPageCount(pdf)
	if err != nil {
		t.Fatalf("PDFPageCount() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("pdf page count = %d, want 2", count)
	}

	doc, err := metadata.Read(f.layout.MetadataPath(result.DocumentID))
	if err != nil {
		t.Fatalf("metadata.Read() failed: %v", err)
	}
	if doc.State != metadata.StateSavedLocal {
		t.Errorf("State = %q, want SavedLocal", doc.State)
	}
	if doc.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", doc.PageCount)
	}

	// No render temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(pdfPath))
	for _, entry := range entries {
		if entry.Name() != layout.PDFName {
			t.Errorf("unexpected file in output/: %s", entry.Name())
		}
	}
}

// State never regresses to Draft once the document is SavedLocal.
func TestSaveDraft_MonotonicState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.Finalize(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if _, err := f.store.SaveDraft(ctx, result.DocumentID, pageSet(red, green)); err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	doc, err := metadata.Read(f.layout.MetadataPath(result.DocumentID))
	if err != nil {
		t.Fatalf("metadata.Read() failed: %v", err)
	}
	if doc.State != metadata.StateSavedLocal {
		t.Errorf("State = %q, want SavedLocal after draft save", doc.State)
	}
}

// A document deleted behind the store's back regenerates its PDF from the
// canonical pages, not from stale metadata.
func TestPDFForSharing_ReconstructsFromDisk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.Finalize(ctx, uuid.Nil, pageSet(red, green, blue))
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	id := result.DocumentID

	if err := os.Remove(f.layout.PDFPath(id)); err != nil {
		t.Fatalf("Remove pdf failed: %v", err)
	}

	// Plant a stale page count; reconstruction must ignore it.
	doc, _ := metadata.Read(f.layout.MetadataPath(id))
	doc.PageCount = 99
	if err := metadata.Write(f.layout.MetadataPath(id), doc); err != nil {
		t.Fatalf("metadata.Write() failed: %v", err)
	}

	path, err := f.store.PDFForSharing(ctx, id)
	if err != nil {
		t.Fatalf("PDFForSharing() failed: %v", err)
	}

	pdf, err := os.Open(path)
	if err != nil {
		t.Fatalf("regenerated pdf missing: %v", err)
	}
	defer pdf.Close()

	count, err := codec.PDFPageCount(pdf)
	if err != nil {
		t.Fatalf("PDFPageCount() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("pdf page count = %d, want 3", count)
	}

	updated, err := metadata.Read(f.layout.MetadataPath(id))
	if err != nil {
		t.Fatalf("metadata.Read() failed: %v", err)
	}
	if updated.PageCount != 3 {
		t.Errorf("metadata PageCount = %d, want 3 from directory listing", updated.PageCount)
	}
}

// An existing PDF is returned unchanged; no re-render occurs.
func TestPDFForSharing_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.Finalize(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	id := result.DocumentID

	first, err := f.store.PDFForSharing(ctx, id)
	if err != nil {
		t.Fatalf("PDFForSharing() failed: %v", err)
	}

	// Replace the published file with sentinel bytes; a second call must
	// not touch it.
	sentinel := []byte("sentinel")
	if err := os.WriteFile(first, sentinel, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	second, err := f.store.PDFForSharing(ctx, id)
	if err != nil {
		t.Fatalf("second PDFForSharing() failed: %v", err)
	}
	if second != first {
		t.Errorf("paths differ: %q != %q", second, first)
	}

	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(sentinel) {
		t.Error("second PDFForSharing() re-rendered an existing pdf")
	}
}

func TestPDFForSharing_NoPages(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.PDFForSharing(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrEmptyPages) {
		t.Errorf("PDFForSharing() error = %v, want ErrEmptyPages", err)
	}
}

func TestPDFForSharing_GeneratesWithoutPriorFinalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red, green))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	path, err := f.store.PDFForSharing(ctx, result.DocumentID)
	if err != nil {
		t.Fatalf("PDFForSharing() failed: %v", err)
	}

	pdf, err := os.Open(path)
	if err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
	defer pdf.Close()

	count, err := codec.PDFPageCount(pdf)
	if err != nil {
		t.Fatalf("PDFPageCount() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("pdf page count = %d, want 2", count)
	}

	doc, _ := metadata.Read(f.layout.MetadataPath(result.DocumentID))
	if doc.State != metadata.StateSavedLocal {
		t.Errorf("State = %q, want SavedLocal after share generation", doc.State)
	}
}

func TestPDFForSharingNamed_TransientCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.Finalize(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	path, err := f.store.PDFForSharingNamed(ctx, result.DocumentID, `My/Tax:Report?`)
	if err != nil {
		t.Fatalf("PDFForSharingNamed() failed: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(filepath.Dir(path)) })

	name := filepath.Base(path)
	if name != "My-Tax-Report-.pdf" {
		t.Errorf("share filename = %q, want sanitized My-Tax-Report-.pdf", name)
	}
	if path == f.layout.PDFPath(result.DocumentID) {
		t.Error("share copy points at the canonical pdf")
	}

	canonical, _ := os.ReadFile(f.layout.PDFPath(result.DocumentID))
	copied, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(canonical) != string(copied) {
		t.Error("share copy content differs from canonical pdf")
	}
}

func TestPageImagePaths_NaturalOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()

	dir, err := f.layout.PagesDir(id)
	if err != nil {
		t.Fatalf("PagesDir failed: %v", err)
	}

	// Non-canonical names left by an external tool still sort numerically.
	for _, name := range []string{"10.jpg", "2.jpg", "1.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	paths, err := f.store.PageImagePaths(ctx, id)
	if err != nil {
		t.Fatalf("PageImagePaths() failed: %v", err)
	}

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	want := []string{"1.jpg", "2.jpg", "10.jpg"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, names[i], want[i])
			break
		}
	}
}

func TestPageImagePaths_Empty(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.PageImagePaths(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrEmptyPages) {
		t.Errorf("PageImagePaths() error = %v, want ErrEmptyPages", err)
	}
}

func TestTitle_BestEffort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, ok := f.store.Title(ctx, uuid.New()); ok {
		t.Error("Title() reported ok for a missing document")
	}

	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	title, ok := f.store.Title(ctx, result.DocumentID)
	if !ok || !strings.HasPrefix(title, "Scan-") {
		t.Errorf("Title() = (%q, %v), want default title", title, ok)
	}
}

// Concurrent saves on the same id serialize; the sidecar page count
// always matches the canonical files afterward.
func TestSaveDraft_SerializesPerDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}
	id := result.DocumentID

	sets := [][]pages.Page{
		pageSet(red),
		pageSet(red, green),
		pageSet(red, green, blue),
	}

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.store.SaveDraft(ctx, id, sets[i%len(sets)]); err != nil {
				t.Errorf("concurrent SaveDraft() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	doc, err := metadata.Read(f.layout.MetadataPath(id))
	if err != nil {
		t.Fatalf("metadata.Read() failed: %v", err)
	}

	entries, err := os.ReadDir(f.layout.PagesPath(id))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != doc.PageCount {
		t.Errorf("canonical files = %d, metadata page_count = %d; writes interleaved", len(entries), doc.PageCount)
	}
}

// A rename through the index must serialize with saves on the same id:
// both paths write metadata.json via the same temp name, so the sidecar
// stays readable and the rename is never lost.
func TestRename_SerializesWithSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}
	id := result.DocumentID

	idx := index.New(f.layout, f.locks, f.logger)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := f.store.SaveDraft(ctx, id, pageSet(red, green)); err != nil {
				t.Errorf("concurrent SaveDraft() failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := idx.Rename(ctx, id, "Quarterly Report"); err != nil {
				t.Errorf("concurrent Rename() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	doc, err := metadata.Read(f.layout.MetadataPath(id))
	if err != nil {
		t.Fatalf("sidecar unreadable after concurrent writes: %v", err)
	}
	if doc.Title != "Quarterly Report" {
		t.Errorf("Title = %q, want Quarterly Report; rename was lost", doc.Title)
	}

	entries, err := os.ReadDir(filepath.Dir(f.layout.MetadataPath(id)))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

// A pages path occupied by a regular file is a filesystem failure, not
// an empty document.
func TestPageImagePaths_PagesPathIsFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()

	if _, err := f.layout.DocumentRoot(id); err != nil {
		t.Fatalf("DocumentRoot failed: %v", err)
	}
	if err := os.WriteFile(f.layout.PagesPath(id), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := f.store.PageImagePaths(ctx, id)
	if err == nil {
		t.Fatal("PageImagePaths() succeeded with a file in place of the pages directory")
	}
	if errors.Is(err, store.ErrEmptyPages) {
		t.Errorf("filesystem failure reported as missing pages: %v", err)
	}

	_, err = f.store.PDFForSharing(ctx, id)
	if err == nil {
		t.Fatal("PDFForSharing() succeeded with a file in place of the pages directory")
	}
	if errors.Is(err, store.ErrEmptyPages) {
		t.Errorf("filesystem failure reported as missing pages: %v", err)
	}
}

// When thumbnail rendering fails the first page is re-encoded at the
// fallback quality instead.
func TestSaveDraft_ThumbnailFallback(t *testing.T) {
	// ThumbnailMaxDim deliberately invalid so rendering fails.
	f := newFixtureWithRender(t, config.RenderConfig{
		JPEGQuality:      90,
		ThumbnailQuality: 85,
		FallbackQuality:  65,
		PDFForm:          "letter",
	})

	result, err := f.store.SaveDraft(context.Background(), uuid.Nil, pageSet(red))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	thumb, err := codec.DecodeImage(f.layout.ThumbnailPath(result.DocumentID))
	if err != nil {
		t.Fatalf("fallback thumbnail unreadable: %v", err)
	}
	// The fallback re-encodes the full-size page.
	if thumb.Bounds().Dx() != 48 || thumb.Bounds().Dy() != 64 {
		t.Errorf("thumbnail bounds = %v, want original 48x64", thumb.Bounds())
	}
}

func TestSaveDraft_ThumbnailWriteFailure(t *testing.T) {
	f := newFixture(t)

	// A zero-bounds first page defeats both the renderer and the
	// fallback re-encode.
	pgs := []pages.Page{{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))}}

	_, err := f.store.SaveDraft(context.Background(), uuid.Nil, pgs)
	if !errors.Is(err, store.ErrThumbnailWrite) {
		t.Errorf("SaveDraft() error = %v, want ErrThumbnailWrite", err)
	}
}

type fakeRecognizer struct{}

func (fakeRecognizer) Recognize(ctx context.Context, pgs []pages.Page) (string, map[int]string, error) {
	texts := make(map[int]string, len(pgs))
	full := ""
	for _, p := range pgs {
		texts[p.Index] = "page text"
		full += "page text\n"
	}
	return full, texts, nil
}

func TestRecognize_PersistsTextSidecar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.store.SaveDraft(ctx, uuid.Nil, pageSet(red, green))
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	recognized, err := f.store.Recognize(ctx, result.DocumentID, fakeRecognizer{})
	if err != nil {
		t.Fatalf("Recognize() failed: %v", err)
	}
	if len(recognized.PageTexts) != 2 {
		t.Errorf("PageTexts has %d entries, want 2", len(recognized.PageTexts))
	}

	persisted, err := f.store.TextResult(ctx, result.DocumentID)
	if err != nil {
		t.Fatalf("TextResult() failed: %v", err)
	}
	if persisted.FullText != recognized.FullText {
		t.Errorf("persisted FullText = %q, want %q", persisted.FullText, recognized.FullText)
	}
	if persisted.DocumentID != result.DocumentID {
		t.Errorf("persisted DocumentID = %v, want %v", persisted.DocumentID, result.DocumentID)
	}
}
