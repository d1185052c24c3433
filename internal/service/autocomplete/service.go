// Package autocomplete inserts missing intermediate hierarchy levels when a
// cabinet is drawn directly under a location.
package autocomplete

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

type annotationStore interface {
	GetByID(ctx context.Context, id int64) (domain.Annotation, error)
	Create(ctx context.Context, a domain.Annotation) (domain.Annotation, error)
}

type entityLinker interface {
	FindOrCreate(ctx context.Context, kind domain.AnnotationType, name string, attrs domain.EntityAttributes, projectID, parentID *int64) (domain.Entity, bool, error)
}

// DefaultRunSuffix is appended to the cabinet label to name a synthesized run.
const DefaultRunSuffix = " Run"

// Config controls run synthesis.
type Config struct {
	Enabled   bool
	RunSuffix string
}

// Completer synthesizes cabinet runs between locations and cabinets.
type Completer struct {
	annotations annotationStore
	linker      entityLinker
	cfg         Config
	log         *slog.Logger
}

// NewCompleter creates a new Completer.
func NewCompleter(log *slog.Logger, annotations annotationStore, linker entityLinker, cfg Config) *Completer {
	if cfg.RunSuffix == "" {
		cfg.RunSuffix = DefaultRunSuffix
	}
	return &Completer{
		annotations: annotations,
		linker:      linker,
		cfg:         cfg,
		log:         log.With("service", "autocomplete"),
	}
}

// Submission is the part of a cabinet save the synthetic run is built from.
type Submission struct {
	Label    string
	Geometry domain.Geometry
	View     domain.View
}

// Result describes the parent a cabinet should actually be saved under.
// Run, RunEntity and Notice are set only when a run was synthesized.
type Result struct {
	ParentID  int64
	Run       *domain.Annotation
	RunEntity *domain.Entity
	Notice    *domain.Notice
}

// Synthesized reports whether a new run annotation was inserted.
func (r Result) Synthesized() bool { return r.Run != nil }

// EnsureRunAncestor returns the annotation id a cabinet with the given parent
// should use. A cabinet_run parent is returned unchanged. A location parent gets
// a new cabinet_run child copied from the submission. Other parent types are
// passed through untouched.
func (c *Completer) EnsureRunAncestor(ctx context.Context, parentID int64, sub Submission) (Result, error) {
	parent, err := c.annotations.GetByID(ctx, parentID)
	if err != nil {
		return Result{}, fmt.Errorf("load cabinet parent: %w", err)
	}

	if parent.Type != domain.AnnotationTypeLocation || !c.cfg.Enabled {
		return Result{ParentID: parent.ID}, nil
	}

	name := sub.Label + c.cfg.RunSuffix

	runEntity, created, err := c.linker.FindOrCreate(ctx, domain.AnnotationTypeCabinetRun, name,
		domain.EntityAttributes{}, nil, parent.EntityIDFor(domain.AnnotationTypeLocation))
	if err != nil {
		return Result{}, fmt.Errorf("run entity: %w", err)
	}

	run := domain.Annotation{
		Type:     domain.AnnotationTypeCabinetRun,
		ParentID: &parent.ID,
		Geometry: sub.Geometry,
		View:     sub.View,
		Entity:   runEntity.Ref,
		RoomID:   parent.EntityIDFor(domain.AnnotationTypeRoom),
		Label:    runEntity.Name,
	}
	run = run.Clone()

	run, err = c.annotations.Create(ctx, run)
	if err != nil {
		return Result{}, fmt.Errorf("create run annotation: %w", err)
	}

	c.log.DebugContext(ctx, "run synthesized",
		slog.Int64("location_annotation_id", parent.ID),
		slog.Int64("run_annotation_id", run.ID),
		slog.Int64("run_entity_id", runEntity.Ref.ID),
		slog.Bool("entity_created", created),
	)

	return Result{
		ParentID:  run.ID,
		Run:       &run,
		RunEntity: &runEntity,
		Notice: &domain.Notice{
			Kind:     domain.NoticeRunAutoCreated,
			Title:    "Cabinet run created",
			Body:     fmt.Sprintf("Added cabinet run %q under %q for cabinet %q.", runEntity.Name, parent.Label, sub.Label),
			Severity: domain.NoticeSeverityInfo,
		},
	}, nil
}
