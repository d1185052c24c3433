package annotation

import (
	"context"
	"fmt"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Get returns one annotation.
func (s *Service) Get(ctx context.Context, id int64) (domain.Annotation, error) {
	a, err := s.annotations.GetByID(ctx, id)
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("get annotation: %w", err)
	}
	return a, nil
}

// Path returns the breadcrumb from the annotation up to its root.
func (s *Service) Path(ctx context.Context, id int64) ([]domain.PathNode, error) {
	path, err := s.resolver.BuildHierarchyPath(ctx, domain.PersistedRef(id))
	if err != nil {
		return nil, fmt.Errorf("build hierarchy path: %w", err)
	}
	return path, nil
}

// History returns the audit records of an annotation in replay order.
// limit <= 0 or above the configured maximum selects the maximum.
func (s *Service) History(ctx context.Context, id int64, limit int) ([]domain.AuditRecord, error) {
	if _, err := s.annotations.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("get annotation: %w", err)
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	records, err := s.audit.ListByAnnotation(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// ListByPage returns every annotation drawn on a page.
func (s *Service) ListByPage(ctx context.Context, pageID int64) ([]domain.Annotation, error) {
	if _, err := s.pages.GetPage(ctx, pageID); err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	list, err := s.annotations.ListByPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	return list, nil
}

// LocationViews returns the view keys of a location within a document.
func (s *Service) LocationViews(ctx context.Context, locationID, documentID int64) (map[string][]int, error) {
	if locationID <= 0 {
		return nil, domain.NewValidationError("location_id", "required")
	}
	if documentID <= 0 {
		return nil, domain.NewValidationError("document_id", "required")
	}
	return s.views.GetLocationViewKeys(ctx, locationID, documentID)
}

// PageOverview returns the annotations of a page with their breadcrumbs.
// Breadcrumbs are resolved concurrently.
func (s *Service) PageOverview(ctx context.Context, pageID int64) (PageOverview, error) {
	page, err := s.pages.GetPage(ctx, pageID)
	if err != nil {
		return PageOverview{}, fmt.Errorf("get page: %w", err)
	}

	list, err := s.annotations.ListByPage(ctx, pageID)
	if err != nil {
		return PageOverview{}, fmt.Errorf("list annotations: %w", err)
	}

	out := make([]PageAnnotation, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.OverviewConcurrency)

	for i, a := range list {
		g.Go(func() error {
			path, err := s.resolver.BuildHierarchyPath(gctx, domain.PersistedRef(a.ID))
			if err != nil {
				return fmt.Errorf("path for annotation %d: %w", a.ID, err)
			}
			out[i] = PageAnnotation{Annotation: a, Path: path}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PageOverview{}, err
	}

	return PageOverview{Page: page, Annotations: out}, nil
}
