// Package linker decides whether a save reuses or creates a business entity
// and binds annotations to entities.
package linker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

type entityStore interface {
	Get(ctx context.Context, ref domain.EntityRef) (domain.Entity, error)
	FindByName(ctx context.Context, kind domain.AnnotationType, name string, scopeID *int64) (domain.Entity, error)
	Create(ctx context.Context, draft domain.EntityDraft) (domain.Entity, error)
	Update(ctx context.Context, ref domain.EntityRef, attrs domain.EntityAttributes) (bool, error)
}

// Service resolves and mutates entities on behalf of annotation saves.
type Service struct {
	entities entityStore
	log      *slog.Logger
}

// NewService creates a new linker Service.
func NewService(log *slog.Logger, entities entityStore) *Service {
	return &Service{
		entities: entities,
		log:      log.With("service", "linker"),
	}
}

// Link holds the annotation fields produced by binding an entity.
// RoomID is only set for room entities.
type Link struct {
	Label  string
	Entity domain.EntityRef
	RoomID *int64
}

// Apply copies the link onto an annotation.
func (l Link) Apply(a *domain.Annotation) {
	a.Label = l.Label
	a.Entity = l.Entity
	if l.RoomID != nil {
		id := *l.RoomID
		a.RoomID = &id
	}
}

// FindExisting returns the entity of kind named exactly name under parentID,
// or nil when there is none. Names are compared as-is.
func (s *Service) FindExisting(ctx context.Context, kind domain.AnnotationType, name string, parentID *int64) (*domain.Entity, error) {
	e, err := s.entities.FindByName(ctx, kind, name, parentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", kind, name, err)
	}
	return &e, nil
}

// Create inserts a new entity of kind. The name comes from attrs.Name.
// Rooms are scoped to projectID; other kinds to parentID, which may be nil.
func (s *Service) Create(ctx context.Context, kind domain.AnnotationType, attrs domain.EntityAttributes, projectID, parentID *int64) (domain.Entity, error) {
	name := ""
	if attrs.Name != nil {
		name = strings.TrimSpace(*attrs.Name)
	}
	if name == "" {
		return domain.Entity{}, domain.NewValidationError("entity.name", "required")
	}

	draft, ok := domain.NewEntityDraft(kind, name, projectID, parentID, attrs)
	if !ok {
		return domain.Entity{}, domain.NewValidationError("annotation_type", "invalid annotation type")
	}

	if kind != domain.AnnotationTypeRoom && parentID == nil {
		s.log.WarnContext(ctx, "creating entity without parent",
			slog.String("kind", string(kind)),
			slog.String("name", name),
		)
	}

	e, err := s.entities.Create(ctx, draft)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("create %s: %w", kind, err)
	}
	return e, nil
}

// FindOrCreate reuses the entity of kind named name under the scope, or creates it.
// name is trimmed first. created reports whether a new row was inserted.
func (s *Service) FindOrCreate(ctx context.Context, kind domain.AnnotationType, name string, attrs domain.EntityAttributes, projectID, parentID *int64) (e domain.Entity, created bool, err error) {
	// Lookup and insert must agree on the stored name.
	name = strings.TrimSpace(name)

	scope := parentID
	if kind == domain.AnnotationTypeRoom {
		scope = projectID
	}

	existing, err := s.FindExisting(ctx, kind, name, scope)
	if err != nil {
		return domain.Entity{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	attrs.Name = &name
	e, err = s.Create(ctx, kind, attrs, projectID, parentID)
	if err != nil {
		return domain.Entity{}, false, err
	}
	return e, true, nil
}

// Update applies a partial update. Returns false if the entity does not exist.
func (s *Service) Update(ctx context.Context, kind domain.AnnotationType, entityID int64, attrs domain.EntityAttributes) (bool, error) {
	if attrs.Name != nil && strings.TrimSpace(*attrs.Name) == "" {
		return false, domain.NewValidationError("entity.name", "must not be blank")
	}

	ok, err := s.entities.Update(ctx, domain.NewEntityRef(kind, entityID), attrs)
	if err != nil {
		return false, fmt.Errorf("update %s %d: %w", kind, entityID, err)
	}
	return ok, nil
}

// LinkAnnotationToEntity loads the entity and returns the annotation fields that
// bind to it, together with the entity. Calling it twice with the same
// arguments yields the same Link.
func (s *Service) LinkAnnotationToEntity(ctx context.Context, kind domain.AnnotationType, entityID int64) (Link, domain.Entity, error) {
	e, err := s.Load(ctx, kind, entityID)
	if err != nil {
		return Link{}, domain.Entity{}, err
	}
	return LinkFor(e), e, nil
}

// Load returns the entity of kind with the given id.
func (s *Service) Load(ctx context.Context, kind domain.AnnotationType, entityID int64) (domain.Entity, error) {
	e, err := s.entities.Get(ctx, domain.NewEntityRef(kind, entityID))
	if err != nil {
		return domain.Entity{}, fmt.Errorf("load %s %d: %w", kind, entityID, err)
	}
	return e, nil
}

// LinkFor builds the Link for an already loaded entity.
func LinkFor(e domain.Entity) Link {
	l := Link{Label: e.Name, Entity: e.Ref}
	if e.Ref.Kind == domain.AnnotationTypeRoom {
		l.RoomID = e.Ref.IDPtr()
	}
	return l
}
