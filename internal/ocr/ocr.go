// Package ocr persists recognized-text results as a per-document sidecar
// artifact. Text recognition itself is an external collaborator consumed
// through the Recognizer interface; this package only owns the durable
// artifact, written with the same atomic-replace discipline as the
// metadata sidecar.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/Davidmarkwilcox/ScannerApp/internal/pages"
	"github.com/google/uuid"
)

// ErrReadFailed indicates the text sidecar is missing or malformed.
var ErrReadFailed = errors.New("ocr: read failed")

// Result is the persisted outcome of text recognition over a document's
// ordered page list: the full concatenated text plus a per-page-index map.
type Result struct {
	DocumentID   uuid.UUID          `json:"document_id"`
	FullText     string             `json:"full_text"`
	PageTexts    map[int]string     `json:"page_texts"`
	RecognizedAt metadata.Timestamp `json:"recognized_at"`
}

// Recognizer produces text from an ordered page list. Implementations
// live outside this subsystem.
type Recognizer interface {
	Recognize(ctx context.Context, pgs []pages.Page) (fullText string, pageTexts map[int]string, err error)
}

// Store reads and writes the recognized-text sidecar for a document.
type Store struct {
	layout *layout.Layout
}

// NewStore creates a text sidecar store over the given layout.
func NewStore(l *layout.Layout) *Store {
	return &Store{layout: l}
}

// Write atomically replaces the text sidecar for result.DocumentID.
func (s *Store) Write(result *Result) error {
	if _, err := s.layout.DocumentRoot(result.DocumentID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal text result: %w", err)
	}
	data = append(data, '\n')

	path := s.layout.TextPath(result.DocumentID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Read parses the text sidecar for a document.
func (s *Store) Read(id uuid.UUID) (*Result, error) {
	path := s.layout.TextPath(id)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
	}

	return &result, nil
}
