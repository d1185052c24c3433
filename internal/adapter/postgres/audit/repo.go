// Package audit implements the annotation audit trail using PostgreSQL.
// It provides append-only operations for audit records.
package audit

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/takeoff-backend/internal/adapter/postgres"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Append inserts a new audit record. Records are never updated or deleted.
func (r *Repo) Append(ctx context.Context, record domain.AuditRecord) error {
	query, args, err := postgres.Builder().
		Insert("annotation_history").
		Columns("id", "annotation_id", "pdf_page_id", "user_id", "request_id", "action", "before", "after", "created_at").
		Values(
			record.ID,
			record.AnnotationID,
			record.PageID,
			uuidToPgUUID(record.UserID),
			record.RequestID,
			string(record.Action),
			rawOrNil(record.Before),
			rawOrNil(record.After),
			record.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit record query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "annotation_history", record.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByAnnotation returns the history of an annotation in replay order
// (created_at ascending), limited to limit records.
func (r *Repo) ListByAnnotation(ctx context.Context, annotationID int64, limit int) ([]domain.AuditRecord, error) {
	query, args, err := postgres.Builder().
		Select("id", "annotation_id", "pdf_page_id", "user_id", "request_id", "action", "before", "after", "created_at").
		From("annotation_history").
		Where(squirrel.Eq{"annotation_id": annotationID}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit records query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get audit records by annotation: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditRecord, error) {
		var (
			rec    domain.AuditRecord
			userID pgtype.UUID
			action string
		)
		err := row.Scan(&rec.ID, &rec.AnnotationID, &rec.PageID, &userID, &rec.RequestID, &action, &rec.Before, &rec.After, &rec.CreatedAt)
		if userID.Valid {
			rec.UserID = uuid.UUID(userID.Bytes)
		}
		rec.Action = domain.AuditAction(action)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan audit records of annotation %d: %w", annotationID, err)
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// pgtype helpers
// ---------------------------------------------------------------------------

// uuidToPgUUID converts a uuid.UUID to pgtype.UUID (uuid.Nil -> NULL).
func uuidToPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

// rawOrNil keeps empty snapshots as SQL NULL instead of an invalid empty JSON document.
func rawOrNil(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
