// Package annotation implements the annotation store using PostgreSQL.
package annotation

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/takeoff-backend/internal/adapter/postgres"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

const tableName = "pdf_page_annotations"

var columns = []string{
	"a.id", "a.pdf_page_id", "a.annotation_type", "a.parent_annotation_id",
	"a.x", "a.y", "a.width", "a.height", "a.color",
	"a.view_type", "a.view_orientation", "a.view_scale",
	"a.room_id", "a.room_location_id", "a.cabinet_run_id", "a.cabinet_specification_id",
	"a.label", "a.notes", "a.inferred_position", "a.vertical_zone",
	"a.created_at", "a.updated_at",
}

// linkColumn is the foreign key carrying the entity of each annotation type.
var linkColumn = map[domain.AnnotationType]string{
	domain.AnnotationTypeRoom:       "room_id",
	domain.AnnotationTypeLocation:   "room_location_id",
	domain.AnnotationTypeCabinetRun: "cabinet_run_id",
	domain.AnnotationTypeCabinet:    "cabinet_specification_id",
}

// Repo provides annotation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new annotation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new annotation and returns it with its id and timestamps.
func (r *Repo) Create(ctx context.Context, a domain.Annotation) (domain.Annotation, error) {
	roomID, locationID, runID, cabinetID := entityColumns(a.Type, a.Entity, a.RoomID)

	query, args, err := postgres.Builder().
		Insert(tableName+" AS a").
		Columns(
			"pdf_page_id", "annotation_type", "parent_annotation_id",
			"x", "y", "width", "height", "color",
			"view_type", "view_orientation", "view_scale",
			"room_id", "room_location_id", "cabinet_run_id", "cabinet_specification_id",
			"label", "notes", "inferred_position", "vertical_zone",
		).
		Values(
			a.Geometry.PageID, string(a.Type), a.ParentID,
			a.Geometry.X, a.Geometry.Y, a.Geometry.Width, a.Geometry.Height, a.Geometry.Color,
			string(a.View.Type), a.View.Orientation, a.View.Scale,
			roomID, locationID, runID, cabinetID,
			a.Label, a.Notes, a.InferredPosition, a.VerticalZone,
		).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("build insert annotation query: %w", err)
	}

	created, err := scanAnnotation(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Annotation{}, postgres.MapError(err, "pdf_page_annotation", a.Label)
	}
	return created, nil
}

// Update writes the classification, link, label and notes fields. Geometry is untouched.
func (r *Repo) Update(ctx context.Context, id int64, typ domain.AnnotationType, p domain.AnnotationUpdateParams) (domain.Annotation, error) {
	roomID, locationID, runID, cabinetID := entityColumns(typ, p.Entity, p.RoomID)

	query, args, err := postgres.Builder().
		Update(tableName+" AS a").
		Set("parent_annotation_id", p.ParentID).
		Set("room_id", roomID).
		Set("room_location_id", locationID).
		Set("cabinet_run_id", runID).
		Set("cabinet_specification_id", cabinetID).
		Set("label", p.Label).
		Set("notes", p.Notes).
		Set("inferred_position", p.InferredPosition).
		Set("vertical_zone", p.VerticalZone).
		Set("view_type", string(p.View.Type)).
		Set("view_orientation", p.View.Orientation).
		Set("view_scale", p.View.Scale).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("build update annotation query: %w", err)
	}

	updated, err := scanAnnotation(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Annotation{}, postgres.MapError(err, "pdf_page_annotation", id)
	}
	return updated, nil
}

// UpdateLabels sets label on every listed annotation and returns the number touched.
func (r *Repo) UpdateLabels(ctx context.Context, ids []int64, label string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := postgres.Builder().
		Update(tableName).
		Set("label", label).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update labels query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update annotation labels: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns one annotation.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Annotation, error) {
	query, args, err := selectAnnotations().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("build get annotation query: %w", err)
	}

	a, err := scanAnnotation(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Annotation{}, postgres.MapError(err, "pdf_page_annotation", id)
	}
	return a, nil
}

// ListByPage returns all annotations drawn on a page, oldest first.
func (r *Repo) ListByPage(ctx context.Context, pageID int64) ([]domain.Annotation, error) {
	return r.list(ctx, selectAnnotations().
		Where(squirrel.Eq{"a.pdf_page_id": pageID}).
		OrderBy("a.id ASC"))
}

// ListChildren returns the direct children of an annotation.
func (r *Repo) ListChildren(ctx context.Context, parentID int64) ([]domain.Annotation, error) {
	return r.list(ctx, selectAnnotations().
		Where(squirrel.Eq{"a.parent_annotation_id": parentID}).
		OrderBy("a.id ASC"))
}

// ListLinkedInDocument returns the annotations in a document that link the
// given entity, excluding excludeID.
func (r *Repo) ListLinkedInDocument(ctx context.Context, documentID int64, ref domain.EntityRef, excludeID int64) ([]domain.Annotation, error) {
	col, ok := linkColumn[ref.Kind]
	if !ok || ref.IsZero() {
		return nil, nil
	}

	return r.list(ctx, selectAnnotations().
		Join("pdf_pages p ON p.id = a.pdf_page_id").
		Where(squirrel.Eq{
			"p.document_id":     documentID,
			"a.annotation_type": string(ref.Kind),
			"a." + col:          ref.ID,
		}).
		Where(squirrel.NotEq{"a.id": excludeID}).
		OrderBy("a.id ASC"))
}

// ListLocationViews returns the view of every location annotation in a document
// linked to locationID, ordered by page number.
func (r *Repo) ListLocationViews(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error) {
	query, args, err := postgres.Builder().
		Select("a.id", "p.page_number", "a.view_type", "a.view_orientation", "a.view_scale").
		From(tableName+" a").
		Join("pdf_pages p ON p.id = a.pdf_page_id").
		Where(squirrel.Eq{
			"p.document_id":      documentID,
			"a.annotation_type":  string(domain.AnnotationTypeLocation),
			"a.room_location_id": locationID,
		}).
		OrderBy("p.page_number ASC", "a.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list location views query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list views of location %d: %w", locationID, err)
	}
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LocationView, error) {
		var (
			v        domain.LocationView
			viewType string
		)
		err := row.Scan(&v.AnnotationID, &v.PageNumber, &viewType, &v.View.Orientation, &v.View.Scale)
		v.View.Type = domain.ViewType(viewType)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan views of location %d: %w", locationID, err)
	}
	return views, nil
}

func (r *Repo) list(ctx context.Context, b squirrel.SelectBuilder) ([]domain.Annotation, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list annotations query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Annotation, error) {
		return scanAnnotation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan annotations: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func selectAnnotations() squirrel.SelectBuilder {
	return postgres.Builder().Select(columns...).From(tableName + " a")
}

// entityColumns spreads the entity ref over the four link columns.
// room_id always carries the ancestor room; for room annotations it is the entity itself.
func entityColumns(typ domain.AnnotationType, ref domain.EntityRef, roomID *int64) (room, location, run, cabinet *int64) {
	room = roomID
	if ref.IsZero() || ref.Kind != typ {
		return room, nil, nil, nil
	}
	switch ref.Kind {
	case domain.AnnotationTypeRoom:
		room = ref.IDPtr()
	case domain.AnnotationTypeLocation:
		location = ref.IDPtr()
	case domain.AnnotationTypeCabinetRun:
		run = ref.IDPtr()
	case domain.AnnotationTypeCabinet:
		cabinet = ref.IDPtr()
	}
	return room, location, run, cabinet
}

func scanAnnotation(row pgx.Row) (domain.Annotation, error) {
	var (
		a                  domain.Annotation
		typ, viewType      string
		roomID, locationID *int64
		runID, cabinetID   *int64
	)
	err := row.Scan(
		&a.ID, &a.Geometry.PageID, &typ, &a.ParentID,
		&a.Geometry.X, &a.Geometry.Y, &a.Geometry.Width, &a.Geometry.Height, &a.Geometry.Color,
		&viewType, &a.View.Orientation, &a.View.Scale,
		&roomID, &locationID, &runID, &cabinetID,
		&a.Label, &a.Notes, &a.InferredPosition, &a.VerticalZone,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Annotation{}, err
	}

	a.Type = domain.AnnotationType(typ)
	a.View.Type = domain.ViewType(viewType)
	a.RoomID = roomID

	var linked *int64
	switch a.Type {
	case domain.AnnotationTypeRoom:
		linked = roomID
	case domain.AnnotationTypeLocation:
		linked = locationID
	case domain.AnnotationTypeCabinetRun:
		linked = runID
	case domain.AnnotationTypeCabinet:
		linked = cabinetID
	}
	if linked != nil {
		a.Entity = domain.NewEntityRef(a.Type, *linked)
	}
	return a, nil
}
