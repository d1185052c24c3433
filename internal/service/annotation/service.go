// Package annotation orchestrates annotation saves: hierarchy resolution,
// entity linking, run auto-completion, persistence and the audit trail.
package annotation

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"github.com/heartmarshall/takeoff-backend/internal/service/autocomplete"
	"github.com/heartmarshall/takeoff-backend/internal/service/hierarchy"
	"github.com/heartmarshall/takeoff-backend/internal/service/linker"
	"github.com/heartmarshall/takeoff-backend/internal/service/views"
)

type annotationRepo interface {
	Create(ctx context.Context, a domain.Annotation) (domain.Annotation, error)
	Update(ctx context.Context, id int64, typ domain.AnnotationType, p domain.AnnotationUpdateParams) (domain.Annotation, error)
	UpdateLabels(ctx context.Context, ids []int64, label string) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.Annotation, error)
	ListByPage(ctx context.Context, pageID int64) ([]domain.Annotation, error)
	ListLinkedInDocument(ctx context.Context, documentID int64, ref domain.EntityRef, excludeID int64) ([]domain.Annotation, error)
}

type pageDirectory interface {
	GetPage(ctx context.Context, pageID int64) (domain.Page, error)
}

type auditLog interface {
	Append(ctx context.Context, record domain.AuditRecord) error
	ListByAnnotation(ctx context.Context, annotationID int64, limit int) ([]domain.AuditRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type hierarchyResolver interface {
	ResolveAncestorEntityID(ctx context.Context, ref domain.AnnotationRef, wanted domain.AnnotationType) (hierarchy.Resolution, error)
	BuildHierarchyPath(ctx context.Context, ref domain.AnnotationRef) ([]domain.PathNode, error)
}

type entityLinker interface {
	Load(ctx context.Context, kind domain.AnnotationType, entityID int64) (domain.Entity, error)
	LinkAnnotationToEntity(ctx context.Context, kind domain.AnnotationType, entityID int64) (linker.Link, domain.Entity, error)
	FindOrCreate(ctx context.Context, kind domain.AnnotationType, name string, attrs domain.EntityAttributes, projectID, parentID *int64) (domain.Entity, bool, error)
	Update(ctx context.Context, kind domain.AnnotationType, entityID int64, attrs domain.EntityAttributes) (bool, error)
}

type runCompleter interface {
	EnsureRunAncestor(ctx context.Context, parentID int64, sub autocomplete.Submission) (autocomplete.Result, error)
}

type viewTracker interface {
	GetLocationViewKeys(ctx context.Context, locationID, documentID int64) (map[string][]int, error)
	CheckDuplicate(ctx context.Context, locationID, documentID, excludeID int64, view domain.View) (*domain.Notice, error)
}

type notifier interface {
	Notify(ctx context.Context, n domain.Notice) error
}

type metricsRecorder interface {
	ObserveSave(mode, annotationType, result string, d time.Duration)
	IncNotice(kind string)
}

// Config holds orchestrator settings.
type Config struct {
	// PropagateLabels renames other annotations of the same entity in the
	// document after an update commits.
	PropagateLabels bool
	HistoryLimit    int
	// OverviewConcurrency bounds concurrent breadcrumb lookups in PageOverview.
	OverviewConcurrency int
}

const (
	DefaultHistoryLimit        = 100
	DefaultOverviewConcurrency = 8
)

// Deps groups the collaborators of a Service.
type Deps struct {
	Annotations annotationRepo
	Pages       pageDirectory
	Audit       auditLog
	Tx          txManager
	Resolver    hierarchyResolver
	Linker      entityLinker
	Completer   runCompleter
	Views       viewTracker
	Notifier    notifier
	Metrics     metricsRecorder
}

// Service provides the annotation save and read operations.
type Service struct {
	annotations annotationRepo
	pages       pageDirectory
	audit       auditLog
	tx          txManager
	resolver    hierarchyResolver
	linker      entityLinker
	completer   runCompleter
	views       viewTracker
	notifier    notifier
	metrics     metricsRecorder
	cfg         Config
	log         *slog.Logger
	now         func() time.Time
}

// NewService creates a new annotation Service.
func NewService(log *slog.Logger, deps Deps, cfg Config) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.OverviewConcurrency <= 0 {
		cfg.OverviewConcurrency = DefaultOverviewConcurrency
	}
	return &Service{
		annotations: deps.Annotations,
		pages:       deps.Pages,
		audit:       deps.Audit,
		tx:          deps.Tx,
		resolver:    deps.Resolver,
		linker:      deps.Linker,
		completer:   deps.Completer,
		views:       deps.Views,
		notifier:    deps.Notifier,
		metrics:     deps.Metrics,
		cfg:         cfg,
		log:         log.With("service", "annotation"),
		now:         time.Now,
	}
}

var (
	_ hierarchyResolver = (*hierarchy.Resolver)(nil)
	_ entityLinker      = (*linker.Service)(nil)
	_ runCompleter      = (*autocomplete.Completer)(nil)
	_ viewTracker       = (*views.Tracker)(nil)
)
