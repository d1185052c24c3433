package annotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"github.com/heartmarshall/takeoff-backend/internal/service/autocomplete"
	"github.com/heartmarshall/takeoff-backend/internal/service/linker"
	"github.com/heartmarshall/takeoff-backend/pkg/ctxutil"
)

const (
	modeCreate = "create"
	modeUpdate = "update"
)

// Save creates or updates one annotation. A temporary AnnotationID takes the
// create path and a persisted id the update path. Entity changes, the annotation
// row and the audit record commit together; notices are delivered only after
// the commit.
func (s *Service) Save(ctx context.Context, input SaveInput) (result SaveResult, err error) {
	start := s.now()
	mode := modeCreate
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveSave(mode, string(input.Type), resultLabel(err), s.now().Sub(start))
		}
	}()

	if err := input.Validate(); err != nil {
		return SaveResult{}, err
	}

	ref := input.ref()
	if ref.IsTemporary() {
		result, err = s.create(ctx, input)
	} else {
		mode = modeUpdate
		result, err = s.update(ctx, ref.ID, input)
	}
	if err != nil {
		return SaveResult{}, err
	}

	s.flush(ctx, result.Notices)
	return result, nil
}

func (s *Service) create(ctx context.Context, in SaveInput) (SaveResult, error) {
	res := SaveResult{Created: true}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		page, err := s.pages.GetPage(ctx, in.Geometry.PageID)
		if err != nil {
			return fmt.Errorf("get page: %w", err)
		}

		parentID, err := s.loadParent(ctx, in)
		if err != nil {
			return err
		}

		a := domain.Annotation{
			Type:             in.Type,
			ParentID:         parentID,
			Geometry:         in.Geometry,
			View:             in.View,
			Label:            strings.TrimSpace(in.Label),
			Notes:            in.Notes,
			InferredPosition: in.InferredPosition,
			VerticalZone:     in.VerticalZone,
		}

		if a.Type != domain.AnnotationTypeRoom {
			roomID, orphan, err := s.resolveAncestor(ctx, a.ParentID, domain.AnnotationTypeRoom)
			if err != nil {
				return err
			}
			a.RoomID = roomID
			res.Orphaned = orphan
		}

		// An existing link fixes the label before a run is named after it.
		var linked *domain.Entity
		if in.LinkMode == domain.LinkModeExisting {
			linked, err = s.linkExisting(ctx, in, &a)
			if err != nil {
				return err
			}
		}

		if a.Type == domain.AnnotationTypeCabinet && a.ParentID != nil {
			runLabel := in.entityName()
			if linked != nil {
				runLabel = linked.Name
			}
			completion, err := s.completer.EnsureRunAncestor(ctx, *a.ParentID, autocomplete.Submission{
				Label:    runLabel,
				Geometry: in.Geometry,
				View:     in.View,
			})
			if err != nil {
				return fmt.Errorf("auto-complete run: %w", err)
			}
			if completion.Synthesized() {
				if err := s.appendAudit(ctx, domain.AuditActionCreated, nil, *completion.Run); err != nil {
					return err
				}
				runID := completion.ParentID
				a.ParentID = &runID
				res.SyntheticRun = completion.Run
				res.Notices = append(res.Notices, *completion.Notice)
			}
		}

		if linked != nil {
			res.Entity = linked
		} else {
			entity, orphan, err := s.resolveEntity(ctx, in, &a, page.ProjectID)
			if err != nil {
				return err
			}
			res.Entity = entity
			res.Orphaned = res.Orphaned || orphan
		}

		if a.Type == domain.AnnotationTypeLocation && !a.Entity.IsZero() {
			notice, err := s.views.CheckDuplicate(ctx, a.Entity.ID, page.DocumentID, 0, a.View)
			if err != nil {
				return fmt.Errorf("check duplicate view: %w", err)
			}
			if notice != nil {
				res.Notices = append(res.Notices, *notice)
			}
		}

		created, err := s.annotations.Create(ctx, a)
		if err != nil {
			return fmt.Errorf("create annotation: %w", err)
		}
		if err := s.appendAudit(ctx, domain.AuditActionCreated, nil, created); err != nil {
			return err
		}
		res.Annotation = created
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	s.logSaved(ctx, "annotation created", res)
	return res, nil
}

func (s *Service) update(ctx context.Context, id int64, in SaveInput) (SaveResult, error) {
	var (
		res        SaveResult
		documentID int64
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.annotations.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get annotation: %w", err)
		}
		if existing.Type != in.Type {
			return domain.NewValidationError("annotation_type", "cannot change the type of a saved annotation")
		}

		page, err := s.pages.GetPage(ctx, existing.Geometry.PageID)
		if err != nil {
			return fmt.Errorf("get page: %w", err)
		}
		documentID = page.DocumentID

		before := existing.Clone()
		a := existing.Clone()

		parentID, err := s.loadParent(ctx, in)
		if err != nil {
			return err
		}
		if parentID != nil {
			if *parentID == a.ID {
				return domain.NewValidationError("parent_annotation_id", "annotation cannot be its own parent")
			}
			a.ParentID = parentID
		}

		a.View = in.View
		a.Notes = in.Notes
		a.InferredPosition = in.InferredPosition
		a.VerticalZone = in.VerticalZone
		if label := strings.TrimSpace(in.Label); label != "" {
			a.Label = label
		}

		if a.Type != domain.AnnotationTypeRoom {
			roomID, orphan, err := s.resolveAncestor(ctx, a.ParentID, domain.AnnotationTypeRoom)
			if err != nil {
				return err
			}
			if roomID != nil {
				a.RoomID = roomID
			}
			res.Orphaned = orphan
		}

		switch {
		case in.LinkMode == domain.LinkModeExisting:
			if in.LinkedEntityID != nil && a.Entity.ID == *in.LinkedEntityID {
				e, err := s.linker.Load(ctx, a.Type, a.Entity.ID)
				if err != nil {
					return err
				}
				res.Entity = &e
				break
			}
			s.log.DebugContext(ctx, "annotation relinked",
				slog.Int64("annotation_id", a.ID),
				slog.Int64("from_entity_id", a.Entity.ID),
				slog.Int64("to_entity_id", *in.LinkedEntityID),
			)
			e, err := s.linkExisting(ctx, in, &a)
			if err != nil {
				return err
			}
			res.Entity = e

		case !a.Entity.IsZero():
			attrs := in.Entity
			if attrs.Name == nil {
				if label := strings.TrimSpace(in.Label); label != "" {
					attrs.Name = &label
				}
			}
			ok, err := s.linker.Update(ctx, a.Type, a.Entity.ID, attrs)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("update %s %d: %w", a.Type, a.Entity.ID, domain.ErrNotFound)
			}
			e, err := s.linker.Load(ctx, a.Type, a.Entity.ID)
			if err != nil {
				return err
			}
			a.Label = e.Name
			res.Entity = &e

		default:
			e, orphan, err := s.resolveEntity(ctx, in, &a, page.ProjectID)
			if err != nil {
				return err
			}
			res.Entity = e
			res.Orphaned = res.Orphaned || orphan
		}

		if a.Type == domain.AnnotationTypeLocation && !a.Entity.IsZero() && viewMoved(before, a) {
			notice, err := s.views.CheckDuplicate(ctx, a.Entity.ID, page.DocumentID, a.ID, a.View)
			if err != nil {
				return fmt.Errorf("check duplicate view: %w", err)
			}
			if notice != nil {
				res.Notices = append(res.Notices, *notice)
			}
		}

		updated, err := s.annotations.Update(ctx, a.ID, a.Type, a.UpdateParams())
		if err != nil {
			return fmt.Errorf("update annotation: %w", err)
		}
		if err := s.appendAudit(ctx, domain.AuditActionUpdated, &before, updated); err != nil {
			return err
		}
		res.Annotation = updated
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	if s.cfg.PropagateLabels && !res.Annotation.Entity.IsZero() {
		res.Propagated = s.propagateLabel(ctx, documentID, res.Annotation)
	}

	s.logSaved(ctx, "annotation updated", res)
	return res, nil
}

// viewMoved reports whether an update changes the view key of the annotation
// or the entity it is checked against.
func viewMoved(before, after domain.Annotation) bool {
	if before.Entity != after.Entity {
		return true
	}
	oldKey, _ := domain.ViewKey(before.View)
	newKey, _ := domain.ViewKey(after.View)
	return oldKey != newKey
}

// loadParent returns the persisted parent id of the submission. Unsaved
// (temporary) parents are treated as no parent.
func (s *Service) loadParent(ctx context.Context, in SaveInput) (*int64, error) {
	ref, _ := in.parentRef()
	if ref.IsZero() {
		return nil, nil
	}
	if ref.IsTemporary() {
		s.log.DebugContext(ctx, "ignoring unsaved parent", slog.String("parent_annotation_id", ref.String()))
		return nil, nil
	}

	parent, err := s.annotations.GetByID(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("get parent annotation: %w", err)
	}

	if want, ok := in.Type.ParentType(); ok && parent.Type != want {
		s.log.WarnContext(ctx, "unexpected parent type",
			slog.String("annotation_type", string(in.Type)),
			slog.String("parent_type", string(parent.Type)),
			slog.Int64("parent_annotation_id", parent.ID),
		)
	}

	id := parent.ID
	return &id, nil
}

// resolveAncestor returns the entity id of the nearest ancestor of type wanted,
// starting at parentID. orphan is set when no typed ancestor supplied it.
func (s *Service) resolveAncestor(ctx context.Context, parentID *int64, wanted domain.AnnotationType) (*int64, bool, error) {
	if parentID == nil {
		return nil, true, nil
	}
	r, err := s.resolver.ResolveAncestorEntityID(ctx, domain.PersistedRef(*parentID), wanted)
	if err != nil {
		return nil, false, fmt.Errorf("resolve %s ancestor: %w", wanted, err)
	}
	return r.EntityID, r.Orphan, nil
}

// linkExisting binds a to the entity named by in.LinkedEntityID.
func (s *Service) linkExisting(ctx context.Context, in SaveInput, a *domain.Annotation) (*domain.Entity, error) {
	link, e, err := s.linker.LinkAnnotationToEntity(ctx, a.Type, *in.LinkedEntityID)
	if err != nil {
		return nil, err
	}
	link.Apply(a)
	return &e, nil
}

// resolveEntity finds or creates the entity for a create-mode save and links a to it.
func (s *Service) resolveEntity(ctx context.Context, in SaveInput, a *domain.Annotation, projectID *int64) (*domain.Entity, bool, error) {
	var (
		parentEntityID *int64
		orphan         bool
		err            error
	)
	switch a.Type {
	case domain.AnnotationTypeLocation:
		parentEntityID = a.RoomID
		orphan = a.RoomID == nil
	case domain.AnnotationTypeCabinetRun:
		parentEntityID, orphan, err = s.resolveAncestor(ctx, a.ParentID, domain.AnnotationTypeLocation)
	case domain.AnnotationTypeCabinet:
		parentEntityID, orphan, err = s.resolveAncestor(ctx, a.ParentID, domain.AnnotationTypeCabinetRun)
	}
	if err != nil {
		return nil, false, err
	}

	e, created, err := s.linker.FindOrCreate(ctx, a.Type, in.entityName(), in.Entity, projectID, parentEntityID)
	if err != nil {
		return nil, false, err
	}
	if !created {
		s.log.DebugContext(ctx, "reusing existing entity",
			slog.String("kind", string(e.Ref.Kind)),
			slog.Int64("entity_id", e.Ref.ID),
			slog.String("name", e.Name),
		)
	}

	linker.LinkFor(e).Apply(a)
	return &e, orphan, nil
}

func (s *Service) appendAudit(ctx context.Context, action domain.AuditAction, before *domain.Annotation, after domain.Annotation) error {
	beforeRaw, err := domain.Snapshot(before)
	if err != nil {
		return fmt.Errorf("snapshot before: %w", err)
	}
	afterRaw, err := domain.Snapshot(&after)
	if err != nil {
		return fmt.Errorf("snapshot after: %w", err)
	}

	actor := ctxutil.ActorFromCtx(ctx)
	err = s.audit.Append(ctx, domain.AuditRecord{
		ID:           uuid.New(),
		UserID:       actor.UserID,
		RequestID:    actor.RequestID,
		AnnotationID: after.ID,
		PageID:       after.Geometry.PageID,
		Action:       action,
		Before:       beforeRaw,
		After:        afterRaw,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return fmt.Errorf("audit log: %w", err)
	}
	return nil
}

// propagateLabel relabels the other annotations in the document that link the
// same entity. Failures are logged; the update has already committed.
func (s *Service) propagateLabel(ctx context.Context, documentID int64, a domain.Annotation) int64 {
	linked, err := s.annotations.ListLinkedInDocument(ctx, documentID, a.Entity, a.ID)
	if err != nil {
		s.log.WarnContext(ctx, "label propagation failed",
			slog.Int64("annotation_id", a.ID),
			slog.String("error", err.Error()),
		)
		return 0
	}

	var ids []int64
	for _, other := range linked {
		if other.Label != a.Label {
			ids = append(ids, other.ID)
		}
	}
	if len(ids) == 0 {
		return 0
	}

	n, err := s.annotations.UpdateLabels(ctx, ids, a.Label)
	if err != nil {
		s.log.WarnContext(ctx, "label propagation failed",
			slog.Int64("annotation_id", a.ID),
			slog.Int("targets", len(ids)),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return n
}

// flush delivers notices collected during a committed save.
func (s *Service) flush(ctx context.Context, notices []domain.Notice) {
	for _, n := range notices {
		if s.metrics != nil {
			s.metrics.IncNotice(string(n.Kind))
		}
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.log.WarnContext(ctx, "notify failed",
				slog.String("kind", string(n.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) logSaved(ctx context.Context, msg string, res SaveResult) {
	attrs := []any{
		slog.Int64("annotation_id", res.Annotation.ID),
		slog.String("annotation_type", string(res.Annotation.Type)),
		slog.Int64("pdf_page_id", res.Annotation.Geometry.PageID),
		slog.Int64("entity_id", res.Annotation.Entity.ID),
	}
	if res.SyntheticRun != nil {
		attrs = append(attrs, slog.Int64("synthetic_run_id", res.SyntheticRun.ID))
	}
	if res.Propagated > 0 {
		attrs = append(attrs, slog.Int64("propagated", res.Propagated))
	}
	s.log.InfoContext(ctx, msg, attrs...)

	if res.Orphaned {
		s.log.WarnContext(ctx, "annotation saved without typed ancestor",
			slog.Int64("annotation_id", res.Annotation.ID),
			slog.String("annotation_type", string(res.Annotation.Type)),
		)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}
