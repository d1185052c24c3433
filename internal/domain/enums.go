package domain

// AnnotationType is the closed set of rectangle kinds a user can draw.
type AnnotationType string

const (
	AnnotationTypeRoom       AnnotationType = "room"
	AnnotationTypeLocation   AnnotationType = "location"
	AnnotationTypeCabinetRun AnnotationType = "cabinet_run"
	AnnotationTypeCabinet    AnnotationType = "cabinet"
)

func (t AnnotationType) String() string { return string(t) }

func (t AnnotationType) IsValid() bool {
	switch t {
	case AnnotationTypeRoom, AnnotationTypeLocation, AnnotationTypeCabinetRun, AnnotationTypeCabinet:
		return true
	}
	return false
}

// ParentType returns the only annotation type allowed as the direct parent.
// Rooms have no parent and return ok=false.
func (t AnnotationType) ParentType() (AnnotationType, bool) {
	switch t {
	case AnnotationTypeLocation:
		return AnnotationTypeRoom, true
	case AnnotationTypeCabinetRun:
		return AnnotationTypeLocation, true
	case AnnotationTypeCabinet:
		return AnnotationTypeCabinetRun, true
	}
	return "", false
}

// Depth is the level of the type in the Room > Location > CabinetRun > Cabinet tree, starting at 1.
func (t AnnotationType) Depth() int {
	switch t {
	case AnnotationTypeRoom:
		return 1
	case AnnotationTypeLocation:
		return 2
	case AnnotationTypeCabinetRun:
		return 3
	case AnnotationTypeCabinet:
		return 4
	}
	return 0
}

// ViewType classifies the architectural drawing an annotation sits on.
type ViewType string

const (
	ViewTypePlan      ViewType = "plan"
	ViewTypeElevation ViewType = "elevation"
	ViewTypeSection   ViewType = "section"
	ViewTypeDetail    ViewType = "detail"
)

func (v ViewType) String() string { return string(v) }

func (v ViewType) IsValid() bool {
	switch v {
	case ViewTypePlan, ViewTypeElevation, ViewTypeSection, ViewTypeDetail:
		return true
	}
	return false
}

// RequiresOrientation reports whether the view is only meaningful with a side/compass orientation.
func (v ViewType) RequiresOrientation() bool {
	return v == ViewTypeElevation || v == ViewTypeSection
}

// LinkMode tells a save whether to attach an existing entity or create one.
type LinkMode string

const (
	LinkModeExisting LinkMode = "existing"
	LinkModeCreate   LinkMode = "create"
)

func (m LinkMode) String() string { return string(m) }

func (m LinkMode) IsValid() bool {
	return m == LinkModeExisting || m == LinkModeCreate
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreated AuditAction = "created"
	AuditActionUpdated AuditAction = "updated"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	return a == AuditActionCreated || a == AuditActionUpdated
}

// NoticeSeverity is the toast level of a user notification.
type NoticeSeverity string

const (
	NoticeSeverityInfo    NoticeSeverity = "info"
	NoticeSeverityWarning NoticeSeverity = "warning"
)

func (s NoticeSeverity) String() string { return string(s) }
