package memory

import (
	"context"
	"sort"
	"time"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// AuditRepo is the in-memory append-only audit log.
type AuditRepo struct {
	store *Store
}

// Append stores a new audit record.
func (r *AuditRepo) Append(ctx context.Context, record domain.AuditRecord) error {
	return r.store.write(ctx, func(st *memoryState, _ time.Time) error {
		if _, ok := st.annotations[record.AnnotationID]; !ok {
			return notFound("pdf_page_annotation", record.AnnotationID)
		}
		record.Before = append([]byte(nil), record.Before...)
		record.After = append([]byte(nil), record.After...)
		st.history = append(st.history, record)
		return nil
	})
}

// ListByAnnotation returns the history of an annotation in replay order.
func (r *AuditRepo) ListByAnnotation(ctx context.Context, annotationID int64, limit int) ([]domain.AuditRecord, error) {
	out := []domain.AuditRecord{}
	err := r.store.read(ctx, func(st *memoryState) error {
		for _, rec := range st.history {
			if rec.AnnotationID == annotationID {
				out = append(out, rec)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}
