// Package layout maps document identifiers to their on-disk directory
// structure. Every document lives under <base>/Documents/<id>/ with
// canonical pages, derived artifacts, and the metadata sidecar at fixed
// locations:
//
//	metadata.json        document sidecar
//	thumbnail.jpg        derived thumbnail
//	pages/NNN.jpg        canonical pages, 1-based, zero-padded
//	output/document.pdf  derived PDF
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/Davidmarkwilcox/ScannerApp/internal/config"
	"github.com/google/uuid"
)

// Fixed names within a document directory.
const (
	DocumentsDirName = "Documents"
	PagesDirName     = "pages"
	OutputDirName    = "output"
	MetadataFileName = "metadata.json"
	ThumbnailName    = "thumbnail.jpg"
	PDFName          = "document.pdf"
	TextFileName     = "text.json"
)

// ErrNotADirectory indicates a path component exists but is a regular file.
var ErrNotADirectory = errors.New("layout: path exists and is not a directory")

// Layout resolves document paths beneath a fixed base directory.
// Directory resolvers create missing directories as a side effect;
// file-path resolvers do not touch the filesystem.
type Layout struct {
	basePath string
}

// New creates a layout rooted at the configured base path.
// The base path is resolved to an absolute path during construction.
func New(cfg *config.StorageConfig) (*Layout, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	return &Layout{basePath: absPath}, nil
}

// BasePath returns the absolute storage root.
func (l *Layout) BasePath() string {
	return l.basePath
}

// DocumentsRoot ensures and returns the directory containing all documents.
func (l *Layout) DocumentsRoot() (string, error) {
	return l.ensureDir(filepath.Join(l.basePath, DocumentsDirName))
}

// DocumentRoot ensures and returns the directory for a single document.
func (l *Layout) DocumentRoot(id uuid.UUID) (string, error) {
	return l.ensureDir(filepath.Join(l.basePath, DocumentsDirName, id.String()))
}

// PagesDir ensures and returns the canonical pages directory for a document.
func (l *Layout) PagesDir(id uuid.UUID) (string, error) {
	return l.ensureDir(filepath.Join(l.basePath, DocumentsDirName, id.String(), PagesDirName))
}

// OutputDir ensures and returns the derived artifact directory for a document.
func (l *Layout) OutputDir(id uuid.UUID) (string, error) {
	return l.ensureDir(filepath.Join(l.basePath, DocumentsDirName, id.String(), OutputDirName))
}

// PagesPath returns the canonical pages directory path without ensuring it.
func (l *Layout) PagesPath(id uuid.UUID) string {
	return filepath.Join(l.basePath, DocumentsDirName, id.String(), PagesDirName)
}

// MetadataPath returns the sidecar path without ensuring parent directories.
func (l *Layout) MetadataPath(id uuid.UUID) string {
	return filepath.Join(l.basePath, DocumentsDirName, id.String(), MetadataFileName)
}

// ThumbnailPath returns the thumbnail path without ensuring parent directories.
func (l *Layout) ThumbnailPath(id uuid.UUID) string {
	return filepath.Join(l.basePath, DocumentsDirName, id.String(), ThumbnailName)
}

// PDFPath returns the rendered PDF path without ensuring parent directories.
func (l *Layout) PDFPath(id uuid.UUID) string {
	return filepath.Join(l.basePath, DocumentsDirName, id.String(), OutputDirName, PDFName)
}

// TextPath returns the recognized-text sidecar path without ensuring
// parent directories.
func (l *Layout) TextPath(id uuid.UUID) string {
	return filepath.Join(l.basePath, DocumentsDirName, id.String(), TextFileName)
}

// PagePath returns the canonical page file path for a 1-based page number.
// Page numbers are zero-padded to three digits so lexicographic and
// numeric ordering coincide.
func (l *Layout) PagePath(id uuid.UUID, pageNumber int) string {
	name := fmt.Sprintf("%03d.jpg", pageNumber)
	return filepath.Join(l.basePath, DocumentsDirName, id.String(), PagesDirName, name)
}

func (l *Layout) ensureDir(path string) (string, error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrNotADirectory, path)
		}
		return path, nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		if errors.Is(err, syscall.ENOTDIR) {
			return "", fmt.Errorf("%w: %s", ErrNotADirectory, path)
		}
		return "", fmt.Errorf("create directory: %w", err)
	}

	return path, nil
}
