package ocr_test

import (
	"errors"
	"os"
	"testing"

	"github.com/Davidmarkwilcox/ScannerApp/internal/config"
	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/Davidmarkwilcox/ScannerApp/internal/ocr"
	"github.com/google/uuid"
)

func testStore(t *testing.T) (*ocr.Store, *layout.Layout) {
	t.Helper()

	l, err := layout.New(&config.StorageConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("layout.New() failed: %v", err)
	}
	return ocr.NewStore(l), l
}

func TestWriteRead_RoundTrip(t *testing.T) {
	store, _ := testStore(t)

	want := &ocr.Result{
		DocumentID:   uuid.New(),
		FullText:     "first page\nsecond page\n",
		PageTexts:    map[int]string{0: "first page", 1: "second page"},
		RecognizedAt: metadata.Now(),
	}

	if err := store.Write(want); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	got, err := store.Read(want.DocumentID)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	if got.DocumentID != want.DocumentID {
		t.Errorf("DocumentID = %v, want %v", got.DocumentID, want.DocumentID)
	}
	if got.FullText != want.FullText {
		t.Errorf("FullText = %q, want %q", got.FullText, want.FullText)
	}
	if len(got.PageTexts) != 2 || got.PageTexts[1] != "second page" {
		t.Errorf("PageTexts = %v, want %v", got.PageTexts, want.PageTexts)
	}
}

func TestWrite_Overwrites(t *testing.T) {
	store, l := testStore(t)
	id := uuid.New()

	first := &ocr.Result{DocumentID: id, FullText: "draft", RecognizedAt: metadata.Now()}
	if err := store.Write(first); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	second := &ocr.Result{DocumentID: id, FullText: "revised", RecognizedAt: metadata.Now()}
	if err := store.Write(second); err != nil {
		t.Fatalf("second Write() failed: %v", err)
	}

	got, err := store.Read(id)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if got.FullText != "revised" {
		t.Errorf("FullText = %q, want %q", got.FullText, "revised")
	}

	// The atomic replace leaves no temp file.
	if _, err := os.Stat(l.TextPath(id) + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestRead_Failures(t *testing.T) {
	store, l := testStore(t)

	malformed := uuid.New()
	if _, err := l.DocumentRoot(malformed); err != nil {
		t.Fatalf("DocumentRoot failed: %v", err)
	}
	if err := os.WriteFile(l.TextPath(malformed), []byte("{broken"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tests := []struct {
		name string
		id   uuid.UUID
	}{
		{"missing sidecar", uuid.New()},
		{"malformed sidecar", malformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Read(tt.id)
			if !errors.Is(err, ocr.ErrReadFailed) {
				t.Errorf("Read() error = %v, want ErrReadFailed", err)
			}
		})
	}
}
