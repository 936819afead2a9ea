package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/Davidmarkwilcox/ScannerApp/internal/codec"
	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Loader errors.
var (
	// ErrDirectoryMissing indicates the canonical pages directory does not
	// exist or is not a directory.
	ErrDirectoryMissing = errors.New("pages: directory missing")

	// ErrNoPages indicates the pages directory contains no page files.
	ErrNoPages = errors.New("pages: no pages found")

	// ErrDecodePage indicates a persisted page file could not be decoded.
	ErrDecodePage = errors.New("pages: failed to decode page")
)

// Loader reconstructs ordered in-memory page lists from the canonical
// page files of a document.
type Loader struct {
	layout *layout.Layout
	logger *slog.Logger
}

// NewLoader creates a page loader over the given layout.
func NewLoader(l *layout.Layout, logger *slog.Logger) *Loader {
	return &Loader{
		layout: l,
		logger: logger.With("system", "pages"),
	}
}

// Load lists the canonical page files of a document, sorted
// lexicographically by filename, and decodes each into a Page. Page
// indices are assigned by position in the sorted list; on-disk position
// is the sole source of page order truth.
func (l *Loader) Load(ctx context.Context, id uuid.UUID) ([]Page, error) {
	dir := l.layout.PagesPath(id)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read pages directory: %w", err)
	}

	type pageFile struct {
		name    string
		modTime time.Time
	}

	var files []pageFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".jpg") {
			continue
		}
		fi, err := entry.Info()
		modTime := time.Now().UTC()
		if err == nil {
			modTime = fi.ModTime()
		}
		files = append(files, pageFile{name: entry.Name(), modTime: modTime})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, dir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	result := make([]Page, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, pf := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			path := filepath.Join(dir, pf.name)
			img, err := codec.DecodeImage(path)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrDecodePage, path, err)
			}

			result[i] = Page{Index: i, Image: img, CreatedAt: pf.modTime}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Debug("pages loaded", "document_id", id, "count", len(result))
	return result, nil
}
