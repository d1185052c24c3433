package memory

import (
	"context"
	"sort"
	"time"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// AnnotationRepo is the in-memory annotation store.
type AnnotationRepo struct {
	store *Store
}

// Create stores a new annotation with a fresh id.
func (r *AnnotationRepo) Create(ctx context.Context, a domain.Annotation) (domain.Annotation, error) {
	var out domain.Annotation
	err := r.store.write(ctx, func(st *memoryState, now time.Time) error {
		if err := checkAnnotation(st, a.Type, a.Geometry, a.ParentID, a.Entity, a.RoomID); err != nil {
			return err
		}
		a = normalizeLinks(a.Clone())
		a.ID = st.nextID("pdf_page_annotations")
		a.CreatedAt = now
		a.UpdatedAt = now
		st.annotations[a.ID] = a
		out = a.Clone()
		return nil
	})
	return out, err
}

// Update writes the classification, link, label and notes fields. Geometry is untouched.
func (r *AnnotationRepo) Update(ctx context.Context, id int64, typ domain.AnnotationType, p domain.AnnotationUpdateParams) (domain.Annotation, error) {
	var out domain.Annotation
	err := r.store.write(ctx, func(st *memoryState, now time.Time) error {
		cur, ok := st.annotations[id]
		if !ok {
			return notFound("pdf_page_annotation", id)
		}
		if err := checkAnnotation(st, typ, cur.Geometry, p.ParentID, p.Entity, p.RoomID); err != nil {
			return err
		}
		next := cur.Clone()
		next.ParentID = p.ParentID
		next.Entity = p.Entity
		next.RoomID = p.RoomID
		next.Label = p.Label
		next.Notes = p.Notes
		next.InferredPosition = p.InferredPosition
		next.VerticalZone = p.VerticalZone
		next.View = p.View
		next = normalizeLinks(next.Clone())
		next.UpdatedAt = now
		st.annotations[id] = next
		out = next.Clone()
		return nil
	})
	return out, err
}

// UpdateLabels sets label on every listed annotation and returns the number touched.
func (r *AnnotationRepo) UpdateLabels(ctx context.Context, ids []int64, label string) (int64, error) {
	var n int64
	err := r.store.write(ctx, func(st *memoryState, now time.Time) error {
		for _, id := range ids {
			a, ok := st.annotations[id]
			if !ok {
				continue
			}
			a.Label = label
			a.UpdatedAt = now
			st.annotations[id] = a
			n++
		}
		return nil
	})
	return n, err
}

// GetByID returns one annotation.
func (r *AnnotationRepo) GetByID(ctx context.Context, id int64) (domain.Annotation, error) {
	var out domain.Annotation
	err := r.store.read(ctx, func(st *memoryState) error {
		a, ok := st.annotations[id]
		if !ok {
			return notFound("pdf_page_annotation", id)
		}
		out = a.Clone()
		return nil
	})
	return out, err
}

// ListByPage returns all annotations drawn on a page, oldest first.
func (r *AnnotationRepo) ListByPage(ctx context.Context, pageID int64) ([]domain.Annotation, error) {
	return r.filter(ctx, func(_ *memoryState, a domain.Annotation) bool {
		return a.Geometry.PageID == pageID
	})
}

// ListChildren returns the direct children of an annotation.
func (r *AnnotationRepo) ListChildren(ctx context.Context, parentID int64) ([]domain.Annotation, error) {
	return r.filter(ctx, func(_ *memoryState, a domain.Annotation) bool {
		return a.ParentID != nil && *a.ParentID == parentID
	})
}

// ListLinkedInDocument returns the annotations in a document that link the
// given entity, excluding excludeID.
func (r *AnnotationRepo) ListLinkedInDocument(ctx context.Context, documentID int64, ref domain.EntityRef, excludeID int64) ([]domain.Annotation, error) {
	if ref.IsZero() {
		return nil, nil
	}
	return r.filter(ctx, func(st *memoryState, a domain.Annotation) bool {
		return a.ID != excludeID &&
			a.Type == ref.Kind &&
			a.Entity == ref &&
			st.pages[a.Geometry.PageID].DocumentID == documentID
	})
}

// ListLocationViews returns the view of every location annotation in a document
// linked to locationID, ordered by page number.
func (r *AnnotationRepo) ListLocationViews(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error) {
	var out []domain.LocationView
	err := r.store.read(ctx, func(st *memoryState) error {
		ref := domain.LocationRef(locationID)
		for _, a := range st.annotations {
			p := st.pages[a.Geometry.PageID]
			if a.Type != domain.AnnotationTypeLocation || a.Entity != ref || p.DocumentID != documentID {
				continue
			}
			out = append(out, domain.LocationView{AnnotationID: a.ID, PageNumber: p.PageNumber, View: a.Clone().View})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].PageNumber != out[j].PageNumber {
			return out[i].PageNumber < out[j].PageNumber
		}
		return out[i].AnnotationID < out[j].AnnotationID
	})
	return out, err
}

func (r *AnnotationRepo) filter(ctx context.Context, keep func(st *memoryState, a domain.Annotation) bool) ([]domain.Annotation, error) {
	out := []domain.Annotation{}
	err := r.store.read(ctx, func(st *memoryState) error {
		for _, a := range st.annotations {
			if keep(st, a) {
				out = append(out, a.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// checkAnnotation enforces the same constraints the SQL schema does.
func checkAnnotation(st *memoryState, typ domain.AnnotationType, g domain.Geometry, parentID *int64, ref domain.EntityRef, roomID *int64) error {
	if !typ.IsValid() {
		return domain.NewValidationError("annotation_type", "invalid annotation type")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"x", g.X}, {"y", g.Y}, {"width", g.Width}, {"height", g.Height}} {
		if f.v < 0 || f.v > 1 {
			return domain.NewValidationError(f.name, "must be between 0 and 1")
		}
	}
	if _, ok := st.pages[g.PageID]; !ok {
		return notFound("pdf_page", g.PageID)
	}
	if parentID != nil {
		if _, ok := st.annotations[*parentID]; !ok {
			return notFound("pdf_page_annotation", *parentID)
		}
	}
	if !ref.IsZero() {
		if ref.Kind != typ {
			return domain.NewValidationError("entity", "entity kind does not match annotation type")
		}
		if _, ok := st.entities[ref.Kind][ref.ID]; !ok {
			return notFound(string(ref.Kind), ref.ID)
		}
	}
	if roomID != nil {
		if _, ok := st.entities[domain.AnnotationTypeRoom][*roomID]; !ok {
			return notFound("room", *roomID)
		}
	}
	return nil
}

// normalizeLinks mirrors the SQL layout where a room annotation's entity lives in room_id.
func normalizeLinks(a domain.Annotation) domain.Annotation {
	if a.Type == domain.AnnotationTypeRoom && !a.Entity.IsZero() {
		a.RoomID = a.Entity.IDPtr()
	}
	return a
}
