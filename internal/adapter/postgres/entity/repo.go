// Package entity implements storage for rooms, locations, cabinet runs and
// cabinets using PostgreSQL. All four kinds share one repository; the kind on
// the EntityRef selects the table.
package entity

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/takeoff-backend/internal/adapter/postgres"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// Repo provides entity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new entity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func tableFor(kind domain.AnnotationType) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, domain.NewValidationError("entity_type", fmt.Sprintf("unknown entity kind %q", kind))
	}
	return t, nil
}

// Get returns the entity the ref points at.
func (r *Repo) Get(ctx context.Context, ref domain.EntityRef) (domain.Entity, error) {
	t, err := tableFor(ref.Kind)
	if err != nil {
		return domain.Entity{}, err
	}

	query, args, err := postgres.Builder().
		Select(t.selectColumns()...).
		From(t.name).
		Where(squirrel.Eq{"id": ref.ID}).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build get %s query: %w", ref.Kind, err)
	}

	e, err := scanEntity(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...), ref.Kind, t)
	if err != nil {
		return domain.Entity{}, postgres.MapError(err, t.name, ref.ID)
	}
	return e, nil
}

// FindByName returns the oldest entity of kind named exactly name under scopeID.
// A nil scopeID only matches entities whose parent is NULL.
func (r *Repo) FindByName(ctx context.Context, kind domain.AnnotationType, name string, scopeID *int64) (domain.Entity, error) {
	t, err := tableFor(kind)
	if err != nil {
		return domain.Entity{}, err
	}

	var scope any
	if scopeID != nil {
		scope = *scopeID
	}

	query, args, err := postgres.Builder().
		Select(t.selectColumns()...).
		From(t.name).
		Where(squirrel.Eq{"name": name, t.scope: scope}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build find %s query: %w", kind, err)
	}

	e, err := scanEntity(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...), kind, t)
	if err != nil {
		return domain.Entity{}, postgres.MapError(err, t.name, name)
	}
	return e, nil
}

// Create inserts a new entity from a defaulted draft.
func (r *Repo) Create(ctx context.Context, draft domain.EntityDraft) (domain.Entity, error) {
	t, err := tableFor(draft.Kind)
	if err != nil {
		return domain.Entity{}, err
	}

	scope := draft.ParentID
	if draft.Kind == domain.AnnotationTypeRoom {
		scope = draft.ProjectID
	}

	cols := []string{"name", t.scope}
	vals := []any{draft.Name, scope}
	for _, c := range t.columns {
		v := c.val(&draft.Attributes)
		if isNilPtr(v) {
			continue
		}
		cols = append(cols, c.name)
		vals = append(vals, v)
	}

	query, args, err := postgres.Builder().
		Insert(t.name).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING " + strings.Join(t.selectColumns(), ", ")).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build insert %s query: %w", draft.Kind, err)
	}

	e, err := scanEntity(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...), draft.Kind, t)
	if err != nil {
		return domain.Entity{}, postgres.MapError(err, t.name, draft.Name)
	}
	return e, nil
}

// Update applies the provided attributes to the entity. Fields left nil are
// kept. Returns false when the entity does not exist.
func (r *Repo) Update(ctx context.Context, ref domain.EntityRef, attrs domain.EntityAttributes) (bool, error) {
	t, err := tableFor(ref.Kind)
	if err != nil {
		return false, err
	}

	upd := postgres.Builder().
		Update(t.name).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": ref.ID})
	if attrs.Name != nil {
		upd = upd.Set("name", *attrs.Name)
	}
	for _, c := range t.columns {
		if v := c.val(&attrs); !isNilPtr(v) {
			upd = upd.Set(c.name, v)
		}
	}

	query, args, err := upd.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update %s query: %w", ref.Kind, err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, t.name, ref.ID)
	}
	return tag.RowsAffected() > 0, nil
}

func scanEntity(row pgx.Row, kind domain.AnnotationType, t table) (domain.Entity, error) {
	var e domain.Entity
	e.Ref.Kind = kind

	scope := &e.ParentID
	if kind == domain.AnnotationTypeRoom {
		scope = &e.ProjectID
	}

	dest := []any{&e.Ref.ID, &e.Name, scope, &e.CreatedAt, &e.UpdatedAt}
	for _, c := range t.columns {
		dest = append(dest, c.dest(&e.Attributes))
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Entity{}, err
	}
	return e, nil
}

// isNilPtr reports whether v is a typed nil pointer boxed in an interface.
func isNilPtr(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
