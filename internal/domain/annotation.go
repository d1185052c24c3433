package domain

import (
	"strconv"
	"strings"
	"time"
)

// TempIDPrefix marks client-side annotation ids that were never persisted.
const TempIDPrefix = "temp_"

// AnnotationRef is an inbound annotation identifier: either a persisted id or
// a client-generated temporary id.
type AnnotationRef struct {
	ID   int64
	Temp string
}

// ParseAnnotationRef parses a raw annotation id. Strings carrying the temporary
// prefix become temporary refs; decimal strings become persisted refs.
func ParseAnnotationRef(raw string) (AnnotationRef, bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, TempIDPrefix) {
		return AnnotationRef{Temp: raw}, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return AnnotationRef{}, false
	}
	return AnnotationRef{ID: id}, true
}

// PersistedRef returns a ref for a stored annotation id.
func PersistedRef(id int64) AnnotationRef { return AnnotationRef{ID: id} }

// IsTemporary reports whether the ref points at an unsaved annotation.
func (r AnnotationRef) IsTemporary() bool { return r.Temp != "" }

// IsZero reports whether the ref is empty.
func (r AnnotationRef) IsZero() bool { return r.ID == 0 && r.Temp == "" }

func (r AnnotationRef) String() string {
	if r.IsTemporary() {
		return r.Temp
	}
	return strconv.FormatInt(r.ID, 10)
}

// EntityRef links an annotation to exactly one business entity. The zero value is "unlinked".
type EntityRef struct {
	Kind AnnotationType `json:"kind,omitempty"`
	ID   int64          `json:"id,omitempty"`
}

func RoomRef(id int64) EntityRef       { return EntityRef{Kind: AnnotationTypeRoom, ID: id} }
func LocationRef(id int64) EntityRef   { return EntityRef{Kind: AnnotationTypeLocation, ID: id} }
func CabinetRunRef(id int64) EntityRef { return EntityRef{Kind: AnnotationTypeCabinetRun, ID: id} }
func CabinetRef(id int64) EntityRef    { return EntityRef{Kind: AnnotationTypeCabinet, ID: id} }

// NewEntityRef builds a ref of the given kind.
func NewEntityRef(kind AnnotationType, id int64) EntityRef {
	return EntityRef{Kind: kind, ID: id}
}

// IsZero reports whether the ref links nothing.
func (r EntityRef) IsZero() bool { return r.ID == 0 }

// IDPtr returns the entity id or nil when unlinked.
func (r EntityRef) IDPtr() *int64 {
	if r.IsZero() {
		return nil
	}
	id := r.ID
	return &id
}

// Geometry is the normalized rectangle on one page (fractions of the page size, 0..1).
type Geometry struct {
	PageID int64   `json:"pdf_page_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// View describes which architectural view the annotation was drawn on.
type View struct {
	Type        ViewType `json:"view_type"`
	Orientation *string  `json:"view_orientation,omitempty"`
	Scale       *string  `json:"view_scale,omitempty"`
}

// Annotation is one drawn rectangle on one PDF page.
type Annotation struct {
	ID       int64          `json:"id"`
	Type     AnnotationType `json:"annotation_type"`
	ParentID *int64         `json:"parent_annotation_id,omitempty"`
	Geometry Geometry       `json:"geometry"`
	View     View           `json:"view"`

	// Entity is the one business entity this annotation stands for.
	Entity EntityRef `json:"entity"`
	// RoomID is the ancestor room, denormalized onto every annotation for filtering.
	RoomID *int64 `json:"room_id,omitempty"`

	Label            string  `json:"label"`
	Notes            *string `json:"notes,omitempty"`
	InferredPosition *string `json:"inferred_position,omitempty"`
	VerticalZone     *string `json:"vertical_zone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityIDFor returns the entity id this annotation carries for the given
// hierarchy level, or nil. Rooms are readable through the denormalized RoomID.
func (a *Annotation) EntityIDFor(kind AnnotationType) *int64 {
	if kind == AnnotationTypeRoom {
		if a.Entity.Kind == AnnotationTypeRoom && !a.Entity.IsZero() {
			return a.Entity.IDPtr()
		}
		if a.RoomID != nil {
			id := *a.RoomID
			return &id
		}
		return nil
	}
	if a.Entity.Kind == kind {
		return a.Entity.IDPtr()
	}
	return nil
}

// AnnotationUpdateParams carries the classification/link/label fields an update may touch.
// Geometry is never updated.
type AnnotationUpdateParams struct {
	ParentID         *int64
	Entity           EntityRef
	RoomID           *int64
	Label            string
	Notes            *string
	InferredPosition *string
	VerticalZone     *string
	View             View
}

// UpdateParams returns the mutable part of the annotation.
func (a *Annotation) UpdateParams() AnnotationUpdateParams {
	return AnnotationUpdateParams{
		ParentID:         a.ParentID,
		Entity:           a.Entity,
		RoomID:           a.RoomID,
		Label:            a.Label,
		Notes:            a.Notes,
		InferredPosition: a.InferredPosition,
		VerticalZone:     a.VerticalZone,
		View:             a.View,
	}
}

// Clone returns a deep copy, so snapshots are not affected by later mutation.
func (a Annotation) Clone() Annotation {
	out := a
	out.ParentID = clonePtr(a.ParentID)
	out.RoomID = clonePtr(a.RoomID)
	out.Notes = clonePtr(a.Notes)
	out.InferredPosition = clonePtr(a.InferredPosition)
	out.VerticalZone = clonePtr(a.VerticalZone)
	out.View.Orientation = clonePtr(a.View.Orientation)
	out.View.Scale = clonePtr(a.View.Scale)
	return out
}

// PathNode is one breadcrumb step from an annotation up to its root.
type PathNode struct {
	ID    int64          `json:"id"`
	Label string         `json:"label"`
	Type  AnnotationType `json:"type"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
