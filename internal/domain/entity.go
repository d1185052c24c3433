package domain

import "time"

// Entity is a persisted Room, Location, CabinetRun or Cabinet.
// ParentID points at the immediate parent entity (room for a location, location
// for a run, run for a cabinet); rooms carry ProjectID instead.
type Entity struct {
	Ref        EntityRef        `json:"ref"`
	Name       string           `json:"name"`
	ParentID   *int64           `json:"parent_id,omitempty"`
	ProjectID  *int64           `json:"project_id,omitempty"`
	Attributes EntityAttributes `json:"attributes"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// EntityAttributes holds the type-specific fields submitted with a save.
// A nil field is "not provided"; each kind ignores the fields it does not own.
type EntityAttributes struct {
	Name  *string `json:"name,omitempty"`
	Notes *string `json:"notes,omitempty"`

	// Room
	RoomType    *string `json:"room_type,omitempty"`
	FloorNumber *string `json:"floor_number,omitempty"`

	// Location
	LocationType *string `json:"location_type,omitempty"`
	Sequence     *int    `json:"sequence,omitempty"`

	// CabinetRun
	RunType         *string  `json:"run_type,omitempty"`
	TotalLinearFeet *float64 `json:"total_linear_feet,omitempty"`

	// Cabinet
	WidthInches  *float64 `json:"width_inches,omitempty"`
	HeightInches *float64 `json:"height_inches,omitempty"`
	DepthInches  *float64 `json:"depth_inches,omitempty"`
	Quantity     *int     `json:"quantity,omitempty"`
	UnitPrice    *float64 `json:"unit_price,omitempty"`
	VerticalZone *string  `json:"vertical_zone,omitempty"`
}

// IsEmpty reports whether no attribute was provided.
func (a EntityAttributes) IsEmpty() bool {
	return a == EntityAttributes{}
}

// Entity defaults applied by the draft constructors when a field is omitted.
const (
	DefaultDimensionInches = 0.0
	DefaultLinearFeet      = 0.0
	DefaultQuantity        = 1
	DefaultUnitPrice       = 0.0
	DefaultSequence        = 0
)

// EntityDraft is a fully defaulted entity ready to insert.
type EntityDraft struct {
	Kind       AnnotationType
	Name       string
	ParentID   *int64
	ProjectID  *int64
	Attributes EntityAttributes
}

// NewRoomDraft builds a room under a project.
func NewRoomDraft(name string, projectID *int64, attrs EntityAttributes) EntityDraft {
	return EntityDraft{
		Kind:       AnnotationTypeRoom,
		Name:       name,
		ProjectID:  projectID,
		Attributes: attrs,
	}
}

// NewLocationDraft builds a location under a room. Sequence defaults to 0.
func NewLocationDraft(name string, roomID *int64, attrs EntityAttributes) EntityDraft {
	attrs.Sequence = orDefault(attrs.Sequence, DefaultSequence)
	return EntityDraft{
		Kind:       AnnotationTypeLocation,
		Name:       name,
		ParentID:   roomID,
		Attributes: attrs,
	}
}

// NewCabinetRunDraft builds a run under a location. Linear feet default to 0.
func NewCabinetRunDraft(name string, locationID *int64, attrs EntityAttributes) EntityDraft {
	attrs.TotalLinearFeet = orDefault(attrs.TotalLinearFeet, DefaultLinearFeet)
	return EntityDraft{
		Kind:       AnnotationTypeCabinetRun,
		Name:       name,
		ParentID:   locationID,
		Attributes: attrs,
	}
}

// NewCabinetDraft builds a cabinet under a run. Dimensions default to 0,
// quantity to 1 and unit price to 0.
func NewCabinetDraft(name string, runID *int64, attrs EntityAttributes) EntityDraft {
	attrs.WidthInches = orDefault(attrs.WidthInches, DefaultDimensionInches)
	attrs.HeightInches = orDefault(attrs.HeightInches, DefaultDimensionInches)
	attrs.DepthInches = orDefault(attrs.DepthInches, DefaultDimensionInches)
	attrs.Quantity = orDefault(attrs.Quantity, DefaultQuantity)
	attrs.UnitPrice = orDefault(attrs.UnitPrice, DefaultUnitPrice)
	return EntityDraft{
		Kind:       AnnotationTypeCabinet,
		Name:       name,
		ParentID:   runID,
		Attributes: attrs,
	}
}

// NewEntityDraft dispatches to the constructor for kind. projectID is only used by rooms;
// parentID is ignored for rooms.
func NewEntityDraft(kind AnnotationType, name string, projectID, parentID *int64, attrs EntityAttributes) (EntityDraft, bool) {
	switch kind {
	case AnnotationTypeRoom:
		return NewRoomDraft(name, projectID, attrs), true
	case AnnotationTypeLocation:
		return NewLocationDraft(name, parentID, attrs), true
	case AnnotationTypeCabinetRun:
		return NewCabinetRunDraft(name, parentID, attrs), true
	case AnnotationTypeCabinet:
		return NewCabinetDraft(name, parentID, attrs), true
	}
	return EntityDraft{}, false
}

func orDefault[T any](p *T, def T) *T {
	if p != nil {
		return p
	}
	return &def
}
