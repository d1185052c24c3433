package rest

import "net/http"

// Handlers groups the REST handlers mounted by NewRouter.
type Handlers struct {
	Health      *HealthHandler
	Annotations *AnnotationHandler
	Documents   *DocumentHandler
	// Metrics is mounted at MetricsPath when non-nil.
	Metrics     http.Handler
	MetricsPath string
}

// NewRouter registers every route on a fresh ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/v1/annotations/save", h.Annotations.Save)
	mux.HandleFunc("GET /api/v1/annotations/{id}", h.Annotations.Get)
	mux.HandleFunc("GET /api/v1/annotations/{id}/path", h.Annotations.Path)
	mux.HandleFunc("GET /api/v1/annotations/{id}/history", h.Annotations.History)
	mux.HandleFunc("GET /api/v1/pages/{id}/annotations", h.Annotations.ListByPage)
	mux.HandleFunc("GET /api/v1/pages/{id}/overview", h.Annotations.PageOverview)
	mux.HandleFunc("GET /api/v1/locations/{id}/views", h.Annotations.LocationViews)

	mux.HandleFunc("POST /api/v1/documents", h.Documents.Register)
	mux.HandleFunc("GET /api/v1/documents/{id}", h.Documents.Get)

	if h.Metrics != nil {
		path := h.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, h.Metrics)
	}

	return mux
}
