package index

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/Davidmarkwilcox/ScannerApp/pkg/handlers"
	"github.com/Davidmarkwilcox/ScannerApp/pkg/routes"
	"github.com/google/uuid"
)

// MapHTTPStatus converts index errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, metadata.ErrReadFailed) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// RenameRequest is the rename endpoint payload.
type RenameRequest struct {
	Title string `json:"title"`
}

// Handler provides HTTP endpoints for document enumeration and management.
type Handler struct {
	index  *Index
	logger *slog.Logger
}

// NewHandler creates a document index handler.
func NewHandler(index *Index, logger *slog.Logger) *Handler {
	return &Handler{
		index:  index,
		logger: logger.With("handler", "index"),
	}
}

// Routes returns the document index endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Description: "Document enumeration and management",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Rename},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns all documents with a valid sidecar, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docs := h.index.List(r.Context())
	if docs == nil {
		docs = []metadata.Document{}
	}
	handlers.RespondJSON(w, http.StatusOK, docs)
}

// Rename updates a document title.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	doc, err := h.index.Rename(r.Context(), id, req.Title)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Delete removes a document. Deleting a missing document succeeds.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.index.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
