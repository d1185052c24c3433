package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// EntityRepo is the in-memory store for rooms, locations, runs and cabinets.
type EntityRepo struct {
	store *Store
}

func kindTable(st *memoryState, kind domain.AnnotationType) (map[int64]domain.Entity, error) {
	m, ok := st.entities[kind]
	if !ok {
		return nil, domain.NewValidationError("entity_type", fmt.Sprintf("unknown entity kind %q", kind))
	}
	return m, nil
}

// Get returns the entity the ref points at.
func (r *EntityRepo) Get(ctx context.Context, ref domain.EntityRef) (domain.Entity, error) {
	var out domain.Entity
	err := r.store.read(ctx, func(st *memoryState) error {
		m, err := kindTable(st, ref.Kind)
		if err != nil {
			return err
		}
		e, ok := m[ref.ID]
		if !ok {
			return notFound(string(ref.Kind), ref.ID)
		}
		out = cloneEntity(e)
		return nil
	})
	return out, err
}

// FindByName returns the oldest entity of kind named exactly name under scopeID.
// A nil scopeID only matches entities without a parent.
func (r *EntityRepo) FindByName(ctx context.Context, kind domain.AnnotationType, name string, scopeID *int64) (domain.Entity, error) {
	var out domain.Entity
	err := r.store.read(ctx, func(st *memoryState) error {
		m, err := kindTable(st, kind)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			e := m[id]
			if e.Name == name && sameScope(scopeOf(e), scopeID) {
				out = cloneEntity(e)
				return nil
			}
		}
		return notFound(string(kind), name)
	})
	return out, err
}

// Create inserts a new entity from a defaulted draft.
func (r *EntityRepo) Create(ctx context.Context, draft domain.EntityDraft) (domain.Entity, error) {
	var out domain.Entity
	err := r.store.write(ctx, func(st *memoryState, now time.Time) error {
		m, err := kindTable(st, draft.Kind)
		if err != nil {
			return err
		}
		e := domain.Entity{
			Ref:        domain.NewEntityRef(draft.Kind, st.nextID(string(draft.Kind))),
			Name:       draft.Name,
			Attributes: cloneAttributes(draft.Attributes),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		e.Attributes.Name = nil
		if draft.Kind == domain.AnnotationTypeRoom {
			e.ProjectID = clonePtr(draft.ProjectID)
		} else {
			e.ParentID = clonePtr(draft.ParentID)
			if parentKind, _ := draft.Kind.ParentType(); e.ParentID != nil {
				if _, ok := st.entities[parentKind][*e.ParentID]; !ok {
					return notFound(string(parentKind), *e.ParentID)
				}
			}
		}
		m[e.Ref.ID] = e
		out = cloneEntity(e)
		return nil
	})
	return out, err
}

// Update applies the provided attributes to the entity. Fields left nil are
// kept. Returns false when the entity does not exist.
func (r *EntityRepo) Update(ctx context.Context, ref domain.EntityRef, attrs domain.EntityAttributes) (bool, error) {
	var found bool
	err := r.store.write(ctx, func(st *memoryState, now time.Time) error {
		m, err := kindTable(st, ref.Kind)
		if err != nil {
			return err
		}
		e, ok := m[ref.ID]
		if !ok {
			return nil
		}
		found = true
		attrs = cloneAttributes(attrs)
		if attrs.Name != nil {
			e.Name = *attrs.Name
		}
		mergeAttributes(&e.Attributes, attrs)
		e.UpdatedAt = now
		m[ref.ID] = e
		return nil
	})
	return found, err
}

func scopeOf(e domain.Entity) *int64 {
	if e.Ref.Kind == domain.AnnotationTypeRoom {
		return e.ProjectID
	}
	return e.ParentID
}

func sameScope(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// mergeAttributes copies the provided fields of src onto dst.
// Only fields the entity's kind stores are meaningful; others are kept but never read.
func mergeAttributes(dst *domain.EntityAttributes, src domain.EntityAttributes) {
	set := func(d **string, s *string) {
		if s != nil {
			*d = s
		}
	}
	setF := func(d **float64, s *float64) {
		if s != nil {
			*d = s
		}
	}
	setI := func(d **int, s *int) {
		if s != nil {
			*d = s
		}
	}
	set(&dst.Notes, src.Notes)
	set(&dst.RoomType, src.RoomType)
	set(&dst.FloorNumber, src.FloorNumber)
	set(&dst.LocationType, src.LocationType)
	setI(&dst.Sequence, src.Sequence)
	set(&dst.RunType, src.RunType)
	setF(&dst.TotalLinearFeet, src.TotalLinearFeet)
	setF(&dst.WidthInches, src.WidthInches)
	setF(&dst.HeightInches, src.HeightInches)
	setF(&dst.DepthInches, src.DepthInches)
	setI(&dst.Quantity, src.Quantity)
	setF(&dst.UnitPrice, src.UnitPrice)
	set(&dst.VerticalZone, src.VerticalZone)
}

func cloneAttributes(a domain.EntityAttributes) domain.EntityAttributes {
	return domain.EntityAttributes{
		Name:            clonePtr(a.Name),
		Notes:           clonePtr(a.Notes),
		RoomType:        clonePtr(a.RoomType),
		FloorNumber:     clonePtr(a.FloorNumber),
		LocationType:    clonePtr(a.LocationType),
		Sequence:        clonePtr(a.Sequence),
		RunType:         clonePtr(a.RunType),
		TotalLinearFeet: clonePtr(a.TotalLinearFeet),
		WidthInches:     clonePtr(a.WidthInches),
		HeightInches:    clonePtr(a.HeightInches),
		DepthInches:     clonePtr(a.DepthInches),
		Quantity:        clonePtr(a.Quantity),
		UnitPrice:       clonePtr(a.UnitPrice),
		VerticalZone:    clonePtr(a.VerticalZone),
	}
}

func cloneEntity(e domain.Entity) domain.Entity {
	e.ParentID = clonePtr(e.ParentID)
	e.ProjectID = clonePtr(e.ProjectID)
	e.Attributes = cloneAttributes(e.Attributes)
	return e
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
