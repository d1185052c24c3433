package annotation

import (
	"context"
	"errors"
	"testing"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

func TestPageOverview(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 2)
	room := env.save(t, newInput(domain.AnnotationTypeRoom, env.pageID(1), nil, "Kitchen"))
	loc := env.save(t, newInput(domain.AnnotationTypeLocation, env.pageID(1), &room.Annotation, "Sink Wall"))
	env.save(t, newInput(domain.AnnotationTypeCabinet, env.pageID(1), &loc.Annotation, "B24"))
	env.save(t, newInput(domain.AnnotationTypeRoom, env.pageID(2), nil, "Bath"))

	overview, err := env.svc.PageOverview(context.Background(), env.pageID(1))
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Page.PageNumber != 1 {
		t.Errorf("page number: got %d", overview.Page.PageNumber)
	}
	// room, location, synthetic run, cabinet
	if len(overview.Annotations) != 4 {
		t.Fatalf("annotations: got %d, want 4", len(overview.Annotations))
	}
	for _, pa := range overview.Annotations {
		if want := pa.Annotation.Type.Depth(); len(pa.Path) != want {
			t.Errorf("%s path length: got %d, want %d", pa.Annotation.Type, len(pa.Path), want)
		}
		if len(pa.Path) > 0 && pa.Path[0].ID != pa.Annotation.ID {
			t.Errorf("path must start at the annotation itself: %+v", pa.Path)
		}
	}
}

func TestPageOverview_UnknownPage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	if _, err := env.svc.PageOverview(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.svc.ListByPage(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	room := env.save(t, newInput(domain.AnnotationTypeRoom, env.pageID(1), nil, "Kitchen"))
	for _, label := range []string{"Kitchen A", "Kitchen B", "Kitchen C"} {
		env.save(t, updateInput(room.Annotation, label))
	}

	all, err := env.svc.History(context.Background(), room.Annotation.ID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("records: got %d, want 4", len(all))
	}
	if all[0].Action != domain.AuditActionCreated {
		t.Errorf("first record: %s", all[0].Action)
	}

	limited, err := env.svc.History(context.Background(), room.Annotation.ID, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited: got %d, want 2", len(limited))
	}

	if _, err := env.svc.History(context.Background(), 999, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistory_CapsLimit(t *testing.T) {
	t.Parallel()

	audit := &auditLogMock{
		ListByAnnotationFunc: func(ctx context.Context, annotationID int64, limit int) ([]domain.AuditRecord, error) {
			return nil, nil
		},
	}
	env := newTestEnv(t, 1, func(d *Deps) { d.Audit = audit })
	room, err := env.store.Annotations().Create(context.Background(), domain.Annotation{
		Type:     domain.AnnotationTypeRoom,
		Geometry: geometry(env.pageID(1)),
		View:     planView(),
		Label:    "Kitchen",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewService(discardLogger(), env.deps, Config{HistoryLimit: 10})
	if _, err := svc.History(context.Background(), room.ID, 500); err != nil {
		t.Fatalf("history: %v", err)
	}
	if got := audit.ListByAnnotationCalls()[0].Limit; got != 10 {
		t.Errorf("limit: got %d, want 10", got)
	}
}

func TestLocationViews(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	room := env.save(t, newInput(domain.AnnotationTypeRoom, env.pageID(1), nil, "Kitchen"))
	loc := env.save(t, newInput(domain.AnnotationTypeLocation, env.pageID(1), &room.Annotation, "Sink Wall"))

	in := newInput(domain.AnnotationTypeLocation, env.pageID(2), &room.Annotation, "Sink Wall")
	in.View = elevation("east")
	env.save(t, in)

	detail := newInput(domain.AnnotationTypeLocation, env.pageID(3), &room.Annotation, "Sink Wall")
	detail.View = domain.View{Type: domain.ViewTypeDetail}
	env.save(t, detail)

	keys, err := env.svc.LocationViews(context.Background(), loc.Entity.Ref.ID, env.doc.ID)
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	want := map[string][]int{"plan": {1}, "elevation-east": {2}, "detail": {3}}
	if len(keys) != len(want) {
		t.Fatalf("keys: got %v, want %v", keys, want)
	}
	for k, pages := range want {
		got := keys[k]
		if len(got) != len(pages) || got[0] != pages[0] {
			t.Errorf("%s: got %v, want %v", k, got, pages)
		}
	}

	if _, err := env.svc.LocationViews(context.Background(), 0, env.doc.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
