package store

import (
	"encoding/json"
	"errors"
	"image"
	"log/slog"
	"net/http"

	_ "image/jpeg" // registered for page upload decoding
	_ "image/png"

	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/Davidmarkwilcox/ScannerApp/internal/ocr"
	"github.com/Davidmarkwilcox/ScannerApp/internal/pages"
	"github.com/Davidmarkwilcox/ScannerApp/pkg/handlers"
	"github.com/Davidmarkwilcox/ScannerApp/pkg/routes"
	"github.com/google/uuid"
)

// MapHTTPStatus converts store errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyPages), errors.Is(err, ErrTooManyPages):
		return http.StatusBadRequest
	case errors.Is(err, metadata.ErrReadFailed), errors.Is(err, ocr.ErrReadFailed),
		errors.Is(err, pages.ErrDirectoryMissing), errors.Is(err, pages.ErrNoPages):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Handler provides HTTP endpoints for draft store operations.
type Handler struct {
	store         *Store
	loader        *pages.Loader
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a draft store handler.
func NewHandler(store *Store, loader *pages.Loader, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		store:         store,
		loader:        loader,
		logger:        logger.With("handler", "store"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the draft store endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Description: "Document draft persistence and share artifacts",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Save},
			{Method: "POST", Pattern: "/{id}/finalize", Handler: h.Finalize},
			{Method: "GET", Pattern: "/{id}/pdf", Handler: h.SharePDF},
			{Method: "GET", Pattern: "/{id}/pages", Handler: h.Pages},
			{Method: "GET", Pattern: "/{id}/text", Handler: h.Text},
			{Method: "PUT", Pattern: "/{id}/text", Handler: h.PersistText},
		},
	}
}

// Save accepts ordered page images as a multipart form ("pages" files)
// and persists them as a draft. An optional "id" field overwrites an
// existing document instead of minting a new one.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id := uuid.Nil
	if v := r.FormValue("id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		id = parsed
	}

	pgs, ok := h.readPages(w, r)
	if !ok {
		return
	}

	result, err := h.store.SaveDraft(r.Context(), id, pgs)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Finalize overwrites pages (when supplied) or reloads the persisted
// ones, then renders and publishes the shareable PDF.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var pgs []pages.Page
	if err := r.ParseMultipartForm(h.maxUploadSize); err == nil && r.MultipartForm != nil && len(r.MultipartForm.File["pages"]) > 0 {
		var ok bool
		pgs, ok = h.readPages(w, r)
		if !ok {
			return
		}
	} else {
		pgs, err = h.loader.Load(r.Context(), id)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	result, err := h.store.Finalize(r.Context(), id, pgs)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SharePDF serves the canonical PDF, generating it on demand. A
// "filename" query parameter produces a transient copy carrying a
// sanitized human-readable name.
func (h *Handler) SharePDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var path string
	if preferred := r.URL.Query().Get("filename"); preferred != "" {
		path, err = h.store.PDFForSharingNamed(r.Context(), id, preferred)
	} else {
		path, err = h.store.PDFForSharing(r.Context(), id)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

// Pages lists the canonical page file paths in order.
func (h *Handler) Pages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	paths, err := h.store.PageImagePaths(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"pages": paths})
}

// Text returns the persisted recognized-text sidecar.
func (h *Handler) Text(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.TextResult(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// PersistText stores a recognition result produced by the external OCR
// collaborator.
func (h *Handler) PersistText(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var result ocr.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	result.DocumentID = id
	if result.RecognizedAt.IsZero() {
		result.RecognizedAt = metadata.Now()
	}

	if err := h.store.PersistTextResult(r.Context(), &result); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &result)
}

// readPages parses the ordered "pages" multipart files into in-memory
// pages. It responds with an error and reports false on failure.
func (h *Handler) readPages(w http.ResponseWriter, r *http.Request) ([]pages.Page, bool) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
			return nil, false
		}
	}

	files := r.MultipartForm.File["pages"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyPages)
		return nil, false
	}

	imgs := make([]image.Image, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return nil, false
		}

		img, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return nil, false
		}

		imgs = append(imgs, img)
	}

	return pages.FromImages(imgs), true
}
