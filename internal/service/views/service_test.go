package views

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

//go:generate moq -out location_view_reader_mock_test.go -pkg views . locationViewReader

func strPtr(s string) *string { return &s }

func fixedViews(views ...domain.LocationView) *locationViewReaderMock {
	return &locationViewReaderMock{
		ListLocationViewsFunc: func(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error) {
			return views, nil
		},
	}
}

func TestGetLocationViewKeys(t *testing.T) {
	t.Parallel()

	reader := fixedViews(
		domain.LocationView{AnnotationID: 1, PageNumber: 3, View: domain.View{Type: domain.ViewTypePlan}},
		domain.LocationView{AnnotationID: 2, PageNumber: 7, View: domain.View{Type: domain.ViewTypeElevation, Orientation: strPtr("north")}},
		domain.LocationView{AnnotationID: 3, PageNumber: 9, View: domain.View{Type: domain.ViewTypeDetail}},
		domain.LocationView{AnnotationID: 4, PageNumber: 4, View: domain.View{Type: domain.ViewTypeDetail}},
		domain.LocationView{AnnotationID: 5, PageNumber: 4, View: domain.View{Type: domain.ViewTypeDetail}},
		domain.LocationView{AnnotationID: 6, PageNumber: 8, View: domain.View{Type: domain.ViewTypeSection}}, // no orientation
	)
	tr := NewTracker(slog.Default(), reader)

	got, err := tr.GetLocationViewKeys(context.Background(), 11, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string][]int{
		"plan":            {3},
		"elevation-north": {7},
		"detail":          {4, 9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keys: got %v, want %v", got, want)
	}

	calls := reader.ListLocationViewsCalls()
	if len(calls) != 1 || calls[0].LocationID != 11 || calls[0].DocumentID != 2 {
		t.Errorf("unexpected calls: %+v", calls)
	}
}

func TestCheckDuplicate_PlanCollision(t *testing.T) {
	t.Parallel()

	tr := NewTracker(slog.Default(), fixedViews(
		domain.LocationView{AnnotationID: 1, PageNumber: 3, View: domain.View{Type: domain.ViewTypePlan}},
	))

	n, err := tr.CheckDuplicate(context.Background(), 11, 2, 0, domain.View{Type: domain.ViewTypePlan})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notice")
	}
	if n.Severity != domain.NoticeSeverityWarning || n.Kind != domain.NoticeDuplicateView {
		t.Errorf("unexpected notice: %+v", n)
	}
	if !strings.Contains(n.Body, "page 3") {
		t.Errorf("body should cite page 3: %q", n.Body)
	}
}

func TestCheckDuplicate_IgnoresExcludedAnnotation(t *testing.T) {
	t.Parallel()

	tr := NewTracker(slog.Default(), fixedViews(
		domain.LocationView{AnnotationID: 1, PageNumber: 3, View: domain.View{Type: domain.ViewTypePlan}},
		domain.LocationView{AnnotationID: 2, PageNumber: 5, View: domain.View{Type: domain.ViewTypePlan}},
	))

	n, err := tr.CheckDuplicate(context.Background(), 11, 2, 2, domain.View{Type: domain.ViewTypePlan})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notice for annotation 1")
	}
	if !strings.Contains(n.Body, "page 3") || strings.Contains(n.Body, "5") {
		t.Errorf("body should cite only page 3: %q", n.Body)
	}

	// Only the annotation itself has the view.
	tr = NewTracker(slog.Default(), fixedViews(
		domain.LocationView{AnnotationID: 2, PageNumber: 5, View: domain.View{Type: domain.ViewTypePlan}},
	))
	n, err = tr.CheckDuplicate(context.Background(), 11, 2, 2, domain.View{Type: domain.ViewTypePlan})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != nil {
		t.Errorf("annotation must not collide with itself: %+v", n)
	}
}

func TestCheckDuplicate_OrientationMatters(t *testing.T) {
	t.Parallel()

	tr := NewTracker(slog.Default(), fixedViews(
		domain.LocationView{AnnotationID: 1, PageNumber: 3, View: domain.View{Type: domain.ViewTypeElevation, Orientation: strPtr("north")}},
		domain.LocationView{AnnotationID: 2, PageNumber: 5, View: domain.View{Type: domain.ViewTypeElevation, Orientation: strPtr("north")}},
	))

	n, err := tr.CheckDuplicate(context.Background(), 11, 2, 0, domain.View{Type: domain.ViewTypeElevation, Orientation: strPtr("south")})
	if err != nil || n != nil {
		t.Fatalf("different orientation: got notice %v, err %v", n, err)
	}

	n, err = tr.CheckDuplicate(context.Background(), 11, 2, 0, domain.View{Type: domain.ViewTypeElevation, Orientation: strPtr(" north ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == nil || !strings.Contains(n.Body, "pages 3, 5") || !strings.Contains(n.Body, "north elevation") {
		t.Errorf("unexpected notice: %+v", n)
	}
}

func TestCheckDuplicate_DetailNeverFlagged(t *testing.T) {
	t.Parallel()

	reader := fixedViews(
		domain.LocationView{AnnotationID: 1, PageNumber: 3, View: domain.View{Type: domain.ViewTypeDetail}},
	)
	tr := NewTracker(slog.Default(), reader)

	n, err := tr.CheckDuplicate(context.Background(), 11, 2, 0, domain.View{Type: domain.ViewTypeDetail})
	if err != nil || n != nil {
		t.Fatalf("detail: got notice %v, err %v", n, err)
	}
	if len(reader.ListLocationViewsCalls()) != 0 {
		t.Error("detail check should not query the store")
	}
}

func TestCheckDuplicate_NoExistingViews(t *testing.T) {
	t.Parallel()

	tr := NewTracker(slog.Default(), fixedViews())

	n, err := tr.CheckDuplicate(context.Background(), 11, 2, 0, domain.View{Type: domain.ViewTypePlan})
	if err != nil || n != nil {
		t.Fatalf("got notice %v, err %v", n, err)
	}
}

func TestCheckDuplicate_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	tr := NewTracker(slog.Default(), &locationViewReaderMock{
		ListLocationViewsFunc: func(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error) {
			return nil, boom
		},
	})

	_, err := tr.CheckDuplicate(context.Background(), 11, 2, 0, domain.View{Type: domain.ViewTypePlan})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
