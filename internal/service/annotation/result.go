package annotation

import "github.com/heartmarshall/takeoff-backend/internal/domain"

// SaveResult is the outcome of a committed save.
type SaveResult struct {
	Annotation domain.Annotation
	Entity     *domain.Entity
	// SyntheticRun is the cabinet run inserted between a location and a cabinet.
	SyntheticRun *domain.Annotation
	Notices      []domain.Notice
	// Orphaned is set when no typed ancestor supplied the room or parent entity.
	Orphaned bool
	Created  bool
	// Propagated is the number of other annotations relabeled after an update.
	Propagated int64
}

// PageAnnotation is an annotation together with its breadcrumb.
type PageAnnotation struct {
	Annotation domain.Annotation `json:"annotation"`
	Path       []domain.PathNode `json:"path"`
}

// PageOverview lists every annotation on a page with breadcrumbs.
type PageOverview struct {
	Page        domain.Page      `json:"page"`
	Annotations []PageAnnotation `json:"annotations"`
}
