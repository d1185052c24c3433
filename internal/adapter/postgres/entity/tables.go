package entity

import "github.com/heartmarshall/takeoff-backend/internal/domain"

// column maps one optional attribute onto a table column.
type column struct {
	name string
	val  func(a *domain.EntityAttributes) any
	dest func(a *domain.EntityAttributes) any
}

// table describes where one entity kind is stored. scope is the column holding
// the immediate parent entity id, or project_id for rooms.
type table struct {
	name    string
	scope   string
	columns []column
}

func (t table) selectColumns() []string {
	cols := []string{"id", "name", t.scope, "created_at", "updated_at"}
	for _, c := range t.columns {
		cols = append(cols, c.name)
	}
	return cols
}

var notesColumn = column{
	name: "notes",
	val:  func(a *domain.EntityAttributes) any { return a.Notes },
	dest: func(a *domain.EntityAttributes) any { return &a.Notes },
}

var tables = map[domain.AnnotationType]table{
	domain.AnnotationTypeRoom: {
		name:  "rooms",
		scope: "project_id",
		columns: []column{
			{"room_type", func(a *domain.EntityAttributes) any { return a.RoomType }, func(a *domain.EntityAttributes) any { return &a.RoomType }},
			{"floor_number", func(a *domain.EntityAttributes) any { return a.FloorNumber }, func(a *domain.EntityAttributes) any { return &a.FloorNumber }},
			notesColumn,
		},
	},
	domain.AnnotationTypeLocation: {
		name:  "room_locations",
		scope: "room_id",
		columns: []column{
			{"location_type", func(a *domain.EntityAttributes) any { return a.LocationType }, func(a *domain.EntityAttributes) any { return &a.LocationType }},
			{"sequence", func(a *domain.EntityAttributes) any { return a.Sequence }, func(a *domain.EntityAttributes) any { return &a.Sequence }},
			notesColumn,
		},
	},
	domain.AnnotationTypeCabinetRun: {
		name:  "cabinet_runs",
		scope: "room_location_id",
		columns: []column{
			{"run_type", func(a *domain.EntityAttributes) any { return a.RunType }, func(a *domain.EntityAttributes) any { return &a.RunType }},
			{"total_linear_feet", func(a *domain.EntityAttributes) any { return a.TotalLinearFeet }, func(a *domain.EntityAttributes) any { return &a.TotalLinearFeet }},
			notesColumn,
		},
	},
	domain.AnnotationTypeCabinet: {
		name:  "cabinet_specifications",
		scope: "cabinet_run_id",
		columns: []column{
			{"width_inches", func(a *domain.EntityAttributes) any { return a.WidthInches }, func(a *domain.EntityAttributes) any { return &a.WidthInches }},
			{"height_inches", func(a *domain.EntityAttributes) any { return a.HeightInches }, func(a *domain.EntityAttributes) any { return &a.HeightInches }},
			{"depth_inches", func(a *domain.EntityAttributes) any { return a.DepthInches }, func(a *domain.EntityAttributes) any { return &a.DepthInches }},
			{"quantity", func(a *domain.EntityAttributes) any { return a.Quantity }, func(a *domain.EntityAttributes) any { return &a.Quantity }},
			{"unit_price", func(a *domain.EntityAttributes) any { return a.UnitPrice }, func(a *domain.EntityAttributes) any { return &a.UnitPrice }},
			{"vertical_zone", func(a *domain.EntityAttributes) any { return a.VerticalZone }, func(a *domain.EntityAttributes) any { return &a.VerticalZone }},
			notesColumn,
		},
	},
}
