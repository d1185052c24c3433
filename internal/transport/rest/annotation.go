package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"github.com/heartmarshall/takeoff-backend/internal/service/annotation"
)

// annotationService defines the minimal interface needed by AnnotationHandler.
type annotationService interface {
	Save(ctx context.Context, input annotation.SaveInput) (annotation.SaveResult, error)
	Get(ctx context.Context, id int64) (domain.Annotation, error)
	Path(ctx context.Context, id int64) ([]domain.PathNode, error)
	History(ctx context.Context, id int64, limit int) ([]domain.AuditRecord, error)
	ListByPage(ctx context.Context, pageID int64) ([]domain.Annotation, error)
	LocationViews(ctx context.Context, locationID, documentID int64) (map[string][]int, error)
	PageOverview(ctx context.Context, pageID int64) (annotation.PageOverview, error)
}

var _ annotationService = (*annotation.Service)(nil)

// AnnotationHandler serves the annotation save and read endpoints.
type AnnotationHandler struct {
	svc annotationService
	log *slog.Logger
}

// NewAnnotationHandler creates an AnnotationHandler.
func NewAnnotationHandler(svc annotationService, logger *slog.Logger) *AnnotationHandler {
	return &AnnotationHandler{svc: svc, log: logger.With("handler", "annotation")}
}

// Save handles POST /api/v1/annotations/save.
func (h *AnnotationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.svc.Save(r.Context(), req.toInput())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toSaveResponse(result))
}

// Get handles GET /api/v1/annotations/{id}.
func (h *AnnotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAnnotationResponse(a))
}

// Path handles GET /api/v1/annotations/{id}/path.
func (h *AnnotationHandler) Path(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	path, err := h.svc.Path(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"path": path})
}

// History handles GET /api/v1/annotations/{id}/history?limit=.
func (h *AnnotationHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
	}

	records, err := h.svc.History(r.Context(), id, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]auditResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toAuditResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

// ListByPage handles GET /api/v1/pages/{id}/annotations.
func (h *AnnotationHandler) ListByPage(w http.ResponseWriter, r *http.Request) {
	pageID, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	list, err := h.svc.ListByPage(r.Context(), pageID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"annotations": toAnnotationList(list)})
}

// PageOverview handles GET /api/v1/pages/{id}/overview.
func (h *AnnotationHandler) PageOverview(w http.ResponseWriter, r *http.Request) {
	pageID, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	overview, err := h.svc.PageOverview(r.Context(), pageID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageOverviewResponse(overview))
}

// LocationViews handles GET /api/v1/locations/{id}/views?document_id=.
func (h *AnnotationHandler) LocationViews(w http.ResponseWriter, r *http.Request) {
	locationID, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	documentID, err := positiveInt(r.URL.Query().Get("document_id"), "document_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	views, err := h.svc.LocationViews(r.Context(), locationID, documentID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"views": views})
}
