package annotation

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/heartmarshall/takeoff-backend/internal/adapter/memory"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
	"github.com/heartmarshall/takeoff-backend/internal/service/autocomplete"
	"github.com/heartmarshall/takeoff-backend/internal/service/hierarchy"
	"github.com/heartmarshall/takeoff-backend/internal/service/linker"
	"github.com/heartmarshall/takeoff-backend/internal/service/views"
)

const testProjectID int64 = 77

type testEnv struct {
	store    *memory.Store
	svc      *Service
	notifier *notifierMock
	metrics  *metricsRecorderMock
	doc      domain.Document
	deps     Deps
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv wires the service against the in-memory store with a document of
// the given page count.
func newTestEnv(t *testing.T, pages int, mutate ...func(*Deps)) *testEnv {
	t.Helper()

	store := memory.NewStore()
	doc, err := store.Pages().CreateDocument(context.Background(), int64Ptr(testProjectID), "A-201 Kitchen", pages)
	if err != nil {
		t.Fatalf("create document: %v", err)
	}

	log := discardLogger()
	annotations := store.Annotations()
	link := linker.NewService(log, store.Entities())

	env := &testEnv{
		store: store,
		doc:   doc,
		notifier: &notifierMock{
			NotifyFunc: func(ctx context.Context, n domain.Notice) error { return nil },
		},
		metrics: &metricsRecorderMock{
			ObserveSaveFunc: func(mode, annotationType, result string, d time.Duration) {},
			IncNoticeFunc:   func(kind string) {},
		},
	}

	env.deps = Deps{
		Annotations: annotations,
		Pages:       store.Pages(),
		Audit:       store.Audit(),
		Tx:          store,
		Resolver:    hierarchy.NewResolver(log, annotations, 0),
		Linker:      link,
		Completer:   autocomplete.NewCompleter(log, annotations, link, autocomplete.Config{Enabled: true}),
		Views:       views.NewTracker(log, annotations),
		Notifier:    env.notifier,
		Metrics:     env.metrics,
	}
	for _, m := range mutate {
		m(&env.deps)
	}

	env.svc = NewService(log, env.deps, Config{PropagateLabels: true})
	return env
}

func (e *testEnv) pageID(number int) int64 {
	return e.doc.Pages[number-1].ID
}

func (e *testEnv) save(t *testing.T, in SaveInput) SaveResult {
	t.Helper()
	res, err := e.svc.Save(context.Background(), in)
	if err != nil {
		t.Fatalf("save %s %q: %v", in.Type, in.Label, err)
	}
	return res
}

func geometry(pageID int64) domain.Geometry {
	return domain.Geometry{PageID: pageID, X: 0.1, Y: 0.2, Width: 0.3, Height: 0.25, Color: "#3366ff"}
}

func planView() domain.View { return domain.View{Type: domain.ViewTypePlan} }

func elevation(orientation string) domain.View {
	return domain.View{Type: domain.ViewTypeElevation, Orientation: strPtr(orientation)}
}

// newInput builds a create-mode submission for a new annotation.
func newInput(typ domain.AnnotationType, pageID int64, parent *domain.Annotation, label string) SaveInput {
	in := SaveInput{
		AnnotationID: "temp_" + strconv.FormatInt(time.Now().UnixNano(), 36),
		Type:         typ,
		Geometry:     geometry(pageID),
		View:         planView(),
		Label:        label,
		LinkMode:     domain.LinkModeCreate,
	}
	if parent != nil {
		p := strconv.FormatInt(parent.ID, 10)
		in.ParentAnnotationID = &p
	}
	return in
}

// updateInput builds an update submission for a saved annotation.
func updateInput(a domain.Annotation, label string) SaveInput {
	in := SaveInput{
		AnnotationID: strconv.FormatInt(a.ID, 10),
		Type:         a.Type,
		Geometry:     a.Geometry,
		View:         a.View,
		Label:        label,
		LinkMode:     domain.LinkModeCreate,
	}
	if a.ParentID != nil {
		p := strconv.FormatInt(*a.ParentID, 10)
		in.ParentAnnotationID = &p
	}
	return in
}

func (e *testEnv) history(t *testing.T, annotationID int64) []domain.AuditRecord {
	t.Helper()
	records, err := e.store.Audit().ListByAnnotation(context.Background(), annotationID, 100)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	return records
}
