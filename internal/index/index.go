// Package index enumerates stored documents by scanning the store root
// for valid sidecars, and implements rename and delete.
package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/Davidmarkwilcox/ScannerApp/internal/locks"
	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/google/uuid"
)

// PlaceholderTitle replaces titles that trim to the empty string.
const PlaceholderTitle = "Untitled"

// Index lists, renames, and deletes stored documents. Mutations take
// the per-document lock shared with the draft store, so a rename or
// delete never interleaves with a concurrent save on the same id.
type Index struct {
	layout *layout.Layout
	locks  *locks.Keyed
	logger *slog.Logger
}

// New creates a document index over the given layout. The lock table
// must be the same instance the draft store uses.
func New(l *layout.Layout, lockTable *locks.Keyed, logger *slog.Logger) *Index {
	return &Index{
		layout: l,
		locks:  lockTable,
		logger: logger.With("system", "index"),
	}
}

// List enumerates all documents with a readable sidecar, sorted by
// modification time descending. Subdirectories without a valid sidecar
// are skipped with a warning, never failing the whole listing; an
// unreadable root yields an empty list.
func (i *Index) List(ctx context.Context) []metadata.Document {
	root, err := i.layout.DocumentsRoot()
	if err != nil {
		i.logger.Warn("documents root unavailable", "error", err)
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		i.logger.Warn("documents root unreadable", "root", root, "error", err)
		return nil
	}

	var docs []metadata.Document
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		sidecar := filepath.Join(root, entry.Name(), layout.MetadataFileName)
		doc, err := metadata.Read(sidecar)
		if err != nil {
			i.logger.Warn("skipping document without valid sidecar", "dir", entry.Name(), "error", err)
			continue
		}

		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(a, b int) bool {
		return docs[a].ModifiedAt.After(docs[b].ModifiedAt.Time)
	})

	return docs
}

// Delete removes the entire document directory subtree. A missing
// directory is a no-op success.
func (i *Index) Delete(ctx context.Context, id uuid.UUID) error {
	root, err := i.layout.DocumentsRoot()
	if err != nil {
		return err
	}

	unlock := i.locks.Lock(id)
	defer unlock()

	dir := filepath.Join(root, id.String())
	if err := os.RemoveAll(dir); err != nil {
		return err
	}

	i.logger.Info("document deleted", "document_id", id)
	return nil
}

// Rename updates the document title. Whitespace is trimmed and an empty
// result coerces to the placeholder title. The updated record is written
// back atomically and returned.
func (i *Index) Rename(ctx context.Context, id uuid.UUID, title string) (*metadata.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = PlaceholderTitle
	}

	unlock := i.locks.Lock(id)
	defer unlock()

	path := i.layout.MetadataPath(id)
	doc, err := metadata.Read(path)
	if err != nil {
		return nil, err
	}

	doc.Title = title
	doc.ModifiedAt = metadata.Now()

	if err := metadata.Write(path, doc); err != nil {
		return nil, err
	}

	i.logger.Info("document renamed", "document_id", id, "title", title)
	return doc, nil
}
