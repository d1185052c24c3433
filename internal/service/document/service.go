// Package document registers PDF documents and their pages so annotations can
// reference them.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

type documentRepo interface {
	CreateDocument(ctx context.Context, projectID *int64, title string, pageCount int) (domain.Document, error)
	GetDocument(ctx context.Context, documentID int64) (domain.Document, error)
}

// MaxPages caps the page count of one registered document.
const MaxPages = 2000

// Service provides document registration.
type Service struct {
	docs documentRepo
	log  *slog.Logger
}

// NewService creates a new document Service.
func NewService(log *slog.Logger, docs documentRepo) *Service {
	return &Service{
		docs: docs,
		log:  log.With("service", "document"),
	}
}

// RegisterInput holds the parameters for registering a document.
type RegisterInput struct {
	ProjectID *int64
	Title     string
	PageCount int
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if i.PageCount < 1 || i.PageCount > MaxPages {
		errs = append(errs, domain.FieldError{Field: "page_count", Message: fmt.Sprintf("must be between 1 and %d", MaxPages)})
	}
	if i.ProjectID != nil && *i.ProjectID <= 0 {
		errs = append(errs, domain.FieldError{Field: "project_id", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Register creates a document with sequentially numbered pages.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.Document, error) {
	if err := input.Validate(); err != nil {
		return domain.Document{}, err
	}

	doc, err := s.docs.CreateDocument(ctx, input.ProjectID, strings.TrimSpace(input.Title), input.PageCount)
	if err != nil {
		return domain.Document{}, fmt.Errorf("create document: %w", err)
	}

	s.log.InfoContext(ctx, "document registered",
		slog.Int64("document_id", doc.ID),
		slog.Int("pages", len(doc.Pages)),
	)
	return doc, nil
}

// Get returns a document with its pages.
func (s *Service) Get(ctx context.Context, id int64) (domain.Document, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}
