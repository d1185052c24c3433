// Package hierarchy walks annotation parent chains to find the business
// entities an annotation belongs to.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

type annotationReader interface {
	GetByID(ctx context.Context, id int64) (domain.Annotation, error)
}

// DefaultMaxDepth bounds a parent chain walk. The deepest legal chain is four links.
const DefaultMaxDepth = 16

// Resolver resolves ancestor entity ids and breadcrumb paths.
type Resolver struct {
	annotations annotationReader
	maxDepth    int
	log         *slog.Logger
}

// NewResolver creates a new Resolver. maxDepth <= 0 selects DefaultMaxDepth.
func NewResolver(log *slog.Logger, annotations annotationReader, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{
		annotations: annotations,
		maxDepth:    maxDepth,
		log:         log.With("service", "hierarchy"),
	}
}

// Resolution is the outcome of an ancestor lookup.
// Orphan is set when no ancestor of the wanted type was found and the value
// (possibly nil) came from the starting annotation's own fields.
type Resolution struct {
	EntityID *int64
	Orphan   bool
}

// ResolveAncestorEntityID walks up from ref (inclusive) to the nearest annotation
// of type wanted and returns the entity id stored on it. Temporary refs resolve
// to an empty Resolution without any lookup.
func (r *Resolver) ResolveAncestorEntityID(ctx context.Context, ref domain.AnnotationRef, wanted domain.AnnotationType) (Resolution, error) {
	if ref.IsZero() || ref.IsTemporary() {
		return Resolution{}, nil
	}

	var origin *domain.Annotation
	visited := make(map[int64]struct{}, 4)
	next := &ref.ID

	for next != nil {
		id := *next
		if _, seen := visited[id]; seen {
			return Resolution{}, fmt.Errorf("resolve %s ancestor of %d: annotation %d revisited: %w", wanted, ref.ID, id, domain.ErrHierarchyCycle)
		}
		if len(visited) >= r.maxDepth {
			return Resolution{}, fmt.Errorf("resolve %s ancestor of %d: chain longer than %d: %w", wanted, ref.ID, r.maxDepth, domain.ErrHierarchyCycle)
		}
		visited[id] = struct{}{}

		a, err := r.annotations.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			r.log.DebugContext(ctx, "broken parent chain",
				slog.Int64("annotation_id", ref.ID),
				slog.Int64("missing_id", id),
			)
			return Resolution{Orphan: true}, nil
		}
		if err != nil {
			return Resolution{}, fmt.Errorf("get annotation %d: %w", id, err)
		}
		if origin == nil {
			origin = &a
		}

		if a.Type == wanted {
			return Resolution{EntityID: a.EntityIDFor(wanted)}, nil
		}
		next = a.ParentID
	}

	return Resolution{EntityID: origin.EntityIDFor(wanted), Orphan: true}, nil
}

// BuildHierarchyPath returns the breadcrumb from ref up to its root, starting
// with ref itself. A missing ancestor truncates the path; a missing ref is an error.
func (r *Resolver) BuildHierarchyPath(ctx context.Context, ref domain.AnnotationRef) ([]domain.PathNode, error) {
	if ref.IsZero() || ref.IsTemporary() {
		return []domain.PathNode{}, nil
	}

	path := make([]domain.PathNode, 0, 4)
	visited := make(map[int64]struct{}, 4)
	next := &ref.ID

	for next != nil {
		id := *next
		if _, seen := visited[id]; seen {
			return nil, fmt.Errorf("build path of %d: annotation %d revisited: %w", ref.ID, id, domain.ErrHierarchyCycle)
		}
		if len(visited) >= r.maxDepth {
			return nil, fmt.Errorf("build path of %d: chain longer than %d: %w", ref.ID, r.maxDepth, domain.ErrHierarchyCycle)
		}
		visited[id] = struct{}{}

		a, err := r.annotations.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) && len(path) > 0 {
				break
			}
			return nil, fmt.Errorf("get annotation %d: %w", id, err)
		}

		path = append(path, domain.PathNode{ID: a.ID, Label: a.Label, Type: a.Type})
		next = a.ParentID
	}

	return path, nil
}
