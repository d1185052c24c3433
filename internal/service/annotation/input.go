package annotation

import (
	"strings"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// SaveInput is one annotation edit submitted by the viewer.
type SaveInput struct {
	// AnnotationID is "temp_..." for a new annotation or the persisted id.
	AnnotationID string
	Type         domain.AnnotationType
	// ParentAnnotationID is nil or empty for no parent. It may be a temporary id.
	ParentAnnotationID *string
	Geometry           domain.Geometry
	View               domain.View

	Label            string
	Notes            *string
	InferredPosition *string
	VerticalZone     *string

	LinkMode       domain.LinkMode
	LinkedEntityID *int64
	Entity         domain.EntityAttributes
}

// Validate checks all fields and collects all errors. It performs no lookups.
func (i SaveInput) Validate() error {
	var errs []domain.FieldError

	if _, ok := domain.ParseAnnotationRef(i.AnnotationID); !ok {
		errs = append(errs, domain.FieldError{Field: "annotation_id", Message: "must be a temporary id or a positive integer"})
	}

	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "annotation_type", Message: "must be one of room, location, cabinet_run, cabinet"})
	}

	if _, ok := i.parentRef(); !ok {
		errs = append(errs, domain.FieldError{Field: "parent_annotation_id", Message: "must be a temporary id or a positive integer"})
	} else if i.Type == domain.AnnotationTypeRoom && i.hasParent() {
		errs = append(errs, domain.FieldError{Field: "parent_annotation_id", Message: "rooms cannot have a parent"})
	}

	if i.Geometry.PageID <= 0 {
		errs = append(errs, domain.FieldError{Field: "geometry.pdf_page_id", Message: "required"})
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"geometry.x", i.Geometry.X},
		{"geometry.y", i.Geometry.Y},
		{"geometry.width", i.Geometry.Width},
		{"geometry.height", i.Geometry.Height},
	} {
		if f.v < 0 || f.v > 1 {
			errs = append(errs, domain.FieldError{Field: f.name, Message: "must be between 0 and 1"})
		}
	}

	if !i.View.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "view_type", Message: "must be one of plan, elevation, section, detail"})
	} else if i.View.Type.RequiresOrientation() && (i.View.Orientation == nil || strings.TrimSpace(*i.View.Orientation) == "") {
		errs = append(errs, domain.FieldError{Field: "view_orientation", Message: "required for elevation and section views"})
	}

	switch i.LinkMode {
	case domain.LinkModeExisting:
		if i.LinkedEntityID == nil || *i.LinkedEntityID <= 0 {
			errs = append(errs, domain.FieldError{Field: "linked_entity_id", Message: "required when link mode is existing"})
		}
	case domain.LinkModeCreate:
		if i.entityName() == "" {
			errs = append(errs, domain.FieldError{Field: "label", Message: "label or entity name required"})
		}
	default:
		errs = append(errs, domain.FieldError{Field: "link_mode", Message: "must be existing or create"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i SaveInput) ref() domain.AnnotationRef {
	ref, _ := domain.ParseAnnotationRef(i.AnnotationID)
	return ref
}

// parentRef parses the parent id. An absent parent yields the zero ref.
func (i SaveInput) parentRef() (domain.AnnotationRef, bool) {
	if !i.hasParent() {
		return domain.AnnotationRef{}, true
	}
	return domain.ParseAnnotationRef(*i.ParentAnnotationID)
}

func (i SaveInput) hasParent() bool {
	return i.ParentAnnotationID != nil && strings.TrimSpace(*i.ParentAnnotationID) != ""
}

// entityName is the name a created entity gets: entity.name, else the label.
func (i SaveInput) entityName() string {
	if i.Entity.Name != nil {
		if n := strings.TrimSpace(*i.Entity.Name); n != "" {
			return n
		}
	}
	return strings.TrimSpace(i.Label)
}
