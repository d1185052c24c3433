package app

import (
	"context"
	"fmt"

	"github.com/heartmarshall/takeoff-backend/internal/adapter/memory"
	"github.com/heartmarshall/takeoff-backend/internal/adapter/postgres"
	"github.com/heartmarshall/takeoff-backend/internal/adapter/postgres/annotation"
	"github.com/heartmarshall/takeoff-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/takeoff-backend/internal/adapter/postgres/entity"
	"github.com/heartmarshall/takeoff-backend/internal/adapter/postgres/page"
	"github.com/heartmarshall/takeoff-backend/internal/config"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// annotationStore covers every annotation query the services issue.
type annotationStore interface {
	Create(ctx context.Context, a domain.Annotation) (domain.Annotation, error)
	Update(ctx context.Context, id int64, typ domain.AnnotationType, p domain.AnnotationUpdateParams) (domain.Annotation, error)
	UpdateLabels(ctx context.Context, ids []int64, label string) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.Annotation, error)
	ListByPage(ctx context.Context, pageID int64) ([]domain.Annotation, error)
	ListLinkedInDocument(ctx context.Context, documentID int64, ref domain.EntityRef, excludeID int64) ([]domain.Annotation, error)
	ListLocationViews(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error)
}

type entityStore interface {
	Get(ctx context.Context, ref domain.EntityRef) (domain.Entity, error)
	FindByName(ctx context.Context, kind domain.AnnotationType, name string, scopeID *int64) (domain.Entity, error)
	Create(ctx context.Context, draft domain.EntityDraft) (domain.Entity, error)
	Update(ctx context.Context, ref domain.EntityRef, attrs domain.EntityAttributes) (bool, error)
}

type auditStore interface {
	Append(ctx context.Context, record domain.AuditRecord) error
	ListByAnnotation(ctx context.Context, annotationID int64, limit int) ([]domain.AuditRecord, error)
}

type pageStore interface {
	GetPage(ctx context.Context, pageID int64) (domain.Page, error)
	CreateDocument(ctx context.Context, projectID *int64, title string, pageCount int) (domain.Document, error)
	GetDocument(ctx context.Context, documentID int64) (domain.Document, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// storage is one opened persistence backend.
type storage struct {
	annotations annotationStore
	entities    entityStore
	audit       auditStore
	pages       pageStore
	tx          txRunner
	pinger      pinger
	close       func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return newMemoryStorage(), nil
	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &storage{
			annotations: annotation.New(pool),
			entities:    entity.New(pool),
			audit:       audit.New(pool),
			pages:       page.New(pool),
			tx:          postgres.NewTxManager(pool),
			pinger:      pool,
			close:       pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func newMemoryStorage() *storage {
	s := memory.NewStore()
	return &storage{
		annotations: s.Annotations(),
		entities:    s.Entities(),
		audit:       s.Audit(),
		pages:       s.Pages(),
		tx:          s,
		pinger:      s,
		close:       func() {},
	}
}
