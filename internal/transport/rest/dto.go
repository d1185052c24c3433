package rest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"github.com/heartmarshall/takeoff-backend/internal/service/annotation"
)

type geometryRequest struct {
	PdfPageID        int64   `json:"pdfPageId"        validate:"required,gt=0"`
	NormalizedX      float64 `json:"normalizedX"      validate:"gte=0,lte=1"`
	NormalizedY      float64 `json:"normalizedY"      validate:"gte=0,lte=1"`
	NormalizedWidth  float64 `json:"normalizedWidth"  validate:"gte=0,lte=1"`
	NormalizedHeight float64 `json:"normalizedHeight" validate:"gte=0,lte=1"`
	ViewScale        *string `json:"viewScale"`
	Color            string  `json:"color"            validate:"max=32"`
}

type entityRequest struct {
	Name            *string  `json:"name"            validate:"omitempty,max=255"`
	Notes           *string  `json:"notes"`
	RoomType        *string  `json:"roomType"`
	FloorNumber     *string  `json:"floorNumber"`
	LocationType    *string  `json:"locationType"`
	Sequence        *int     `json:"sequence"        validate:"omitempty,gte=0"`
	RunType         *string  `json:"runType"`
	TotalLinearFeet *float64 `json:"totalLinearFeet" validate:"omitempty,gte=0"`
	WidthInches     *float64 `json:"widthInches"     validate:"omitempty,gte=0"`
	HeightInches    *float64 `json:"heightInches"    validate:"omitempty,gte=0"`
	DepthInches     *float64 `json:"depthInches"     validate:"omitempty,gte=0"`
	Quantity        *int     `json:"quantity"        validate:"omitempty,gte=1"`
	UnitPrice       *float64 `json:"unitPrice"       validate:"omitempty,gte=0"`
	VerticalZone    *string  `json:"verticalZone"`
}

type formDataRequest struct {
	Label            string         `json:"label"            validate:"max=255"`
	Notes            *string        `json:"notes"`
	InferredPosition *string        `json:"inferredPosition"`
	VerticalZone     *string        `json:"verticalZone"`
	LinkMode         string         `json:"linkMode"         validate:"required,oneof=existing create"`
	LinkedEntityID   *int64         `json:"linkedEntityId"   validate:"omitempty,gt=0"`
	Entity           *entityRequest `json:"entity"`
}

type saveRequest struct {
	AnnotationID       string          `json:"annotationId"       validate:"required"`
	AnnotationType     string          `json:"annotationType"     validate:"required,oneof=room location cabinet_run cabinet"`
	ParentAnnotationID *string         `json:"parentAnnotationId"`
	Geometry           geometryRequest `json:"geometry"`
	ViewType           string          `json:"viewType"           validate:"required,oneof=plan elevation section detail"`
	ViewOrientation    *string         `json:"viewOrientation"`
	FormData           formDataRequest `json:"formData"`
}

func (r saveRequest) toInput() annotation.SaveInput {
	in := annotation.SaveInput{
		AnnotationID:       r.AnnotationID,
		Type:               domain.AnnotationType(r.AnnotationType),
		ParentAnnotationID: r.ParentAnnotationID,
		Geometry: domain.Geometry{
			PageID: r.Geometry.PdfPageID,
			X:      r.Geometry.NormalizedX,
			Y:      r.Geometry.NormalizedY,
			Width:  r.Geometry.NormalizedWidth,
			Height: r.Geometry.NormalizedHeight,
			Color:  r.Geometry.Color,
		},
		View: domain.View{
			Type:        domain.ViewType(r.ViewType),
			Orientation: r.ViewOrientation,
			Scale:       r.Geometry.ViewScale,
		},
		Label:            r.FormData.Label,
		Notes:            r.FormData.Notes,
		InferredPosition: r.FormData.InferredPosition,
		VerticalZone:     r.FormData.VerticalZone,
		LinkMode:         domain.LinkMode(r.FormData.LinkMode),
		LinkedEntityID:   r.FormData.LinkedEntityID,
	}
	if e := r.FormData.Entity; e != nil {
		in.Entity = domain.EntityAttributes{
			Name:            e.Name,
			Notes:           e.Notes,
			RoomType:        e.RoomType,
			FloorNumber:     e.FloorNumber,
			LocationType:    e.LocationType,
			Sequence:        e.Sequence,
			RunType:         e.RunType,
			TotalLinearFeet: e.TotalLinearFeet,
			WidthInches:     e.WidthInches,
			HeightInches:    e.HeightInches,
			DepthInches:     e.DepthInches,
			Quantity:        e.Quantity,
			UnitPrice:       e.UnitPrice,
			VerticalZone:    e.VerticalZone,
		}
	}
	return in
}

type registerDocumentRequest struct {
	ProjectID *int64 `json:"projectId" validate:"omitempty,gt=0"`
	Title     string `json:"title"     validate:"required,max=255"`
	PageCount int    `json:"pageCount" validate:"required,gt=0"`
}

type annotationResponse struct {
	ID                 int64     `json:"id"`
	AnnotationType     string    `json:"annotationType"`
	ParentAnnotationID *int64    `json:"parentAnnotationId"`
	PdfPageID          int64     `json:"pdfPageId"`
	NormalizedX        float64   `json:"normalizedX"`
	NormalizedY        float64   `json:"normalizedY"`
	NormalizedWidth    float64   `json:"normalizedWidth"`
	NormalizedHeight   float64   `json:"normalizedHeight"`
	Color              string    `json:"color,omitempty"`
	ViewType           string    `json:"viewType"`
	ViewOrientation    *string   `json:"viewOrientation"`
	ViewScale          *string   `json:"viewScale"`
	Label              string    `json:"label"`
	Notes              *string   `json:"notes"`
	InferredPosition   *string   `json:"inferredPosition"`
	VerticalZone       *string   `json:"verticalZone"`
	RoomID             *int64    `json:"roomId"`
	RoomLocationID     *int64    `json:"roomLocationId"`
	CabinetRunID       *int64    `json:"cabinetRunId"`
	CabinetID          *int64    `json:"cabinetSpecificationId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toAnnotationResponse(a domain.Annotation) annotationResponse {
	return annotationResponse{
		ID:                 a.ID,
		AnnotationType:     a.Type.String(),
		ParentAnnotationID: a.ParentID,
		PdfPageID:          a.Geometry.PageID,
		NormalizedX:        a.Geometry.X,
		NormalizedY:        a.Geometry.Y,
		NormalizedWidth:    a.Geometry.Width,
		NormalizedHeight:   a.Geometry.Height,
		Color:              a.Geometry.Color,
		ViewType:           a.View.Type.String(),
		ViewOrientation:    a.View.Orientation,
		ViewScale:          a.View.Scale,
		Label:              a.Label,
		Notes:              a.Notes,
		InferredPosition:   a.InferredPosition,
		VerticalZone:       a.VerticalZone,
		RoomID:             a.EntityIDFor(domain.AnnotationTypeRoom),
		RoomLocationID:     a.EntityIDFor(domain.AnnotationTypeLocation),
		CabinetRunID:       a.EntityIDFor(domain.AnnotationTypeCabinetRun),
		CabinetID:          a.EntityIDFor(domain.AnnotationTypeCabinet),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

type entityResponse struct {
	ID         int64                   `json:"id"`
	Kind       string                  `json:"kind"`
	Name       string                  `json:"name"`
	ParentID   *int64                  `json:"parentId"`
	ProjectID  *int64                  `json:"projectId,omitempty"`
	Attributes domain.EntityAttributes `json:"attributes"`
}

func toEntityResponse(e *domain.Entity) *entityResponse {
	if e == nil {
		return nil
	}
	return &entityResponse{
		ID:         e.Ref.ID,
		Kind:       e.Ref.Kind.String(),
		Name:       e.Name,
		ParentID:   e.ParentID,
		ProjectID:  e.ProjectID,
		Attributes: e.Attributes,
	}
}

type saveResponse struct {
	Annotation   annotationResponse  `json:"annotation"`
	Entity       *entityResponse     `json:"entity"`
	SyntheticRun *annotationResponse `json:"syntheticRun"`
	Notices      []domain.Notice     `json:"notices"`
	Orphaned     bool                `json:"orphaned"`
	Created      bool                `json:"created"`
	Propagated   int64               `json:"propagated"`
}

func toSaveResponse(res annotation.SaveResult) saveResponse {
	resp := saveResponse{
		Annotation: toAnnotationResponse(res.Annotation),
		Entity:     toEntityResponse(res.Entity),
		Notices:    res.Notices,
		Orphaned:   res.Orphaned,
		Created:    res.Created,
		Propagated: res.Propagated,
	}
	if resp.Notices == nil {
		resp.Notices = []domain.Notice{}
	}
	if res.SyntheticRun != nil {
		run := toAnnotationResponse(*res.SyntheticRun)
		resp.SyntheticRun = &run
	}
	return resp
}

type auditResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	UserID    *string         `json:"userId"`
	RequestID string          `json:"requestId,omitempty"`
	PageID    int64           `json:"pdfPageId"`
	Before    json.RawMessage `json:"before"`
	After     json.RawMessage `json:"after"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toAuditResponse(rec domain.AuditRecord) auditResponse {
	resp := auditResponse{
		ID:        rec.ID.String(),
		Action:    string(rec.Action),
		RequestID: rec.RequestID,
		PageID:    rec.PageID,
		Before:    rec.Before,
		After:     rec.After,
		CreatedAt: rec.CreatedAt,
	}
	if rec.UserID != uuid.Nil {
		id := rec.UserID.String()
		resp.UserID = &id
	}
	return resp
}

type pageAnnotationResponse struct {
	Annotation annotationResponse `json:"annotation"`
	Path       []domain.PathNode  `json:"path"`
}

type pageOverviewResponse struct {
	Page        domain.Page              `json:"page"`
	Annotations []pageAnnotationResponse `json:"annotations"`
}

func toPageOverviewResponse(o annotation.PageOverview) pageOverviewResponse {
	resp := pageOverviewResponse{
		Page:        o.Page,
		Annotations: make([]pageAnnotationResponse, 0, len(o.Annotations)),
	}
	for _, pa := range o.Annotations {
		resp.Annotations = append(resp.Annotations, pageAnnotationResponse{
			Annotation: toAnnotationResponse(pa.Annotation),
			Path:       pa.Path,
		})
	}
	return resp
}

func toAnnotationList(list []domain.Annotation) []annotationResponse {
	out := make([]annotationResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAnnotationResponse(a))
	}
	return out
}
