package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"github.com/heartmarshall/takeoff-backend/internal/service/document"
)

type documentService interface {
	Register(ctx context.Context, input document.RegisterInput) (domain.Document, error)
	Get(ctx context.Context, id int64) (domain.Document, error)
}

var _ documentService = (*document.Service)(nil)

// DocumentHandler serves document registration and lookup.
type DocumentHandler struct {
	svc documentService
	log *slog.Logger
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(svc documentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, log: logger.With("handler", "document")}
}

// Register handles POST /api/v1/documents.
func (h *DocumentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerDocumentRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.svc.Register(r.Context(), document.RegisterInput{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		PageCount: req.PageCount,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// Get handles GET /api/v1/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
