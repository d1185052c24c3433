package annotation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/takeoff-backend/internal/adapter/postgres/annotation"
	"github.com/heartmarshall/takeoff-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

func newRepo(t *testing.T) (*annotation.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return annotation.New(pool), pool
}

func strPtr(s string) *string { return &s }

func buildLocation(pageID int64, parentID *int64, roomID, locationID int64, view domain.View) domain.Annotation {
	return domain.Annotation{
		Type:     domain.AnnotationTypeLocation,
		ParentID: parentID,
		Geometry: domain.Geometry{PageID: pageID, X: 0.25, Y: 0.5, Width: 0.1, Height: 0.05, Color: "#00ff00"},
		View:     view,
		Entity:   domain.LocationRef(locationID),
		RoomID:   &roomID,
		Label:    "Sink Wall",
	}
}

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	doc := testhelper.SeedDocument(t, pool, 1)
	room := testhelper.SeedRoom(t, pool, doc.ProjectID)
	loc := testhelper.SeedLocation(t, pool, room.Ref.ID, "Sink Wall")
	roomAnn := testhelper.SeedAnnotation(t, pool, doc.Pages[0].ID, domain.AnnotationTypeRoom, nil, room.Name)

	input := buildLocation(doc.Pages[0].ID, &roomAnn.ID, room.Ref.ID, loc.Ref.ID, domain.View{
		Type: domain.ViewTypeElevation, Orientation: strPtr("north"), Scale: strPtr("1/4\"=1'"),
	})
	input.InferredPosition = strPtr("left")

	created, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected persisted id")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Entity != domain.LocationRef(loc.Ref.ID) {
		t.Errorf("Entity = %+v, want location %d", got.Entity, loc.Ref.ID)
	}
	if got.RoomID == nil || *got.RoomID != room.Ref.ID {
		t.Errorf("RoomID = %v, want %d", got.RoomID, room.Ref.ID)
	}
	if got.ParentID == nil || *got.ParentID != roomAnn.ID {
		t.Errorf("ParentID = %v, want %d", got.ParentID, roomAnn.ID)
	}
	if got.View.Orientation == nil || *got.View.Orientation != "north" {
		t.Errorf("View.Orientation = %v", got.View.Orientation)
	}
	if got.Geometry.X != 0.25 || got.Geometry.Color != "#00ff00" {
		t.Errorf("Geometry = %+v", got.Geometry)
	}
	if got.InferredPosition == nil || *got.InferredPosition != "left" {
		t.Errorf("InferredPosition = %v", got.InferredPosition)
	}
}

func TestRepo_RoomAnnotationLinksThroughRoomID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	doc := testhelper.SeedDocument(t, pool, 1)
	room := testhelper.SeedRoom(t, pool, doc.ProjectID)

	created, err := repo.Create(ctx, domain.Annotation{
		Type:     domain.AnnotationTypeRoom,
		Geometry: domain.Geometry{PageID: doc.Pages[0].ID, Width: 1, Height: 1},
		View:     domain.View{Type: domain.ViewTypePlan},
		Entity:   domain.RoomRef(room.Ref.ID),
		Label:    room.Name,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Entity != domain.RoomRef(room.Ref.ID) {
		t.Errorf("Entity = %+v", created.Entity)
	}
	if created.RoomID == nil || *created.RoomID != room.Ref.ID {
		t.Errorf("RoomID = %v, want %d", created.RoomID, room.Ref.ID)
	}
}

func TestRepo_Create_RejectsOutOfRangeGeometry(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	doc := testhelper.SeedDocument(t, pool, 1)
	_, err := repo.Create(context.Background(), domain.Annotation{
		Type:     domain.AnnotationTypeRoom,
		Geometry: domain.Geometry{PageID: doc.Pages[0].ID, X: 1.5},
		View:     domain.View{Type: domain.ViewTypePlan},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation from check constraint, got: %v", err)
	}
}

func TestRepo_Update_KeepsGeometry(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	doc := testhelper.SeedDocument(t, pool, 1)
	room := testhelper.SeedRoom(t, pool, doc.ProjectID)
	seeded := testhelper.SeedAnnotation(t, pool, doc.Pages[0].ID, domain.AnnotationTypeRoom, nil, "Draft")

	params := seeded.UpdateParams()
	params.Entity = domain.RoomRef(room.Ref.ID)
	params.Label = room.Name
	params.Notes = strPtr("verified on site")

	got, err := repo.Update(ctx, seeded.ID, seeded.Type, params)
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if got.Label != room.Name {
		t.Errorf("Label = %q, want %q", got.Label, room.Name)
	}
	if got.Entity != domain.RoomRef(room.Ref.ID) {
		t.Errorf("Entity = %+v", got.Entity)
	}
	if got.Geometry != seeded.Geometry {
		t.Errorf("Geometry changed: %+v -> %+v", seeded.Geometry, got.Geometry)
	}
	if got.Notes == nil || *got.Notes != "verified on site" {
		t.Errorf("Notes = %v", got.Notes)
	}
}

func TestRepo_Update_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Update(context.Background(), 987654321, domain.AnnotationTypeRoom, domain.AnnotationUpdateParams{
		View: domain.View{Type: domain.ViewTypePlan},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_ListByPageAndChildren(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	doc := testhelper.SeedDocument(t, pool, 2)
	roomAnn := testhelper.SeedAnnotation(t, pool, doc.Pages[0].ID, domain.AnnotationTypeRoom, nil, "Kitchen")
	testhelper.SeedAnnotation(t, pool, doc.Pages[0].ID, domain.AnnotationTypeLocation, &roomAnn.ID, "Sink Wall")
	testhelper.SeedAnnotation(t, pool, doc.Pages[1].ID, domain.AnnotationTypeLocation, &roomAnn.ID, "Range Wall")

	onPage, err := repo.ListByPage(ctx, doc.Pages[0].ID)
	if err != nil {
		t.Fatalf("ListByPage: %v", err)
	}
	if len(onPage) != 2 {
		t.Errorf("ListByPage returned %d annotations, want 2", len(onPage))
	}

	children, err := repo.ListChildren(ctx, roomAnn.ID)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("ListChildren returned %d annotations, want 2", len(children))
	}
}

func TestRepo_LinkedInDocumentAndLabels(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	doc := testhelper.SeedDocument(t, pool, 3)
	other := testhelper.SeedDocument(t, pool, 1)
	room := testhelper.SeedRoom(t, pool, doc.ProjectID)
	loc := testhelper.SeedLocation(t, pool, room.Ref.ID, "Sink Wall")

	var ids []int64
	for _, p := range doc.Pages {
		a, err := repo.Create(ctx, buildLocation(p.ID, nil, room.Ref.ID, loc.Ref.ID, domain.View{Type: domain.ViewTypePlan}))
		if err != nil {
			t.Fatalf("Create on page %d: %v", p.PageNumber, err)
		}
		ids = append(ids, a.ID)
	}
	if _, err := repo.Create(ctx, buildLocation(other.Pages[0].ID, nil, room.Ref.ID, loc.Ref.ID, domain.View{Type: domain.ViewTypePlan})); err != nil {
		t.Fatalf("Create in other document: %v", err)
	}

	linked, err := repo.ListLinkedInDocument(ctx, doc.ID, loc.Ref, ids[0])
	if err != nil {
		t.Fatalf("ListLinkedInDocument: %v", err)
	}
	if len(linked) != 2 {
		t.Fatalf("expected 2 linked annotations, got %d", len(linked))
	}
	for _, a := range linked {
		if a.ID == ids[0] {
			t.Error("excluded annotation was returned")
		}
	}

	n, err := repo.UpdateLabels(ctx, []int64{linked[0].ID, linked[1].ID}, "Sink Wall (revised)")
	if err != nil {
		t.Fatalf("UpdateLabels: %v", err)
	}
	if n != 2 {
		t.Errorf("UpdateLabels touched %d rows, want 2", n)
	}

	got, err := repo.GetByID(ctx, linked[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Label != "Sink Wall (revised)" {
		t.Errorf("Label = %q", got.Label)
	}
}

func TestRepo_ListLocationViews(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	doc := testhelper.SeedDocument(t, pool, 3)
	room := testhelper.SeedRoom(t, pool, doc.ProjectID)
	loc := testhelper.SeedLocation(t, pool, room.Ref.ID, "Sink Wall")

	views := []domain.View{
		{Type: domain.ViewTypePlan},
		{Type: domain.ViewTypeElevation, Orientation: strPtr("east")},
		{Type: domain.ViewTypeDetail},
	}
	for i, v := range views {
		if _, err := repo.Create(ctx, buildLocation(doc.Pages[2-i].ID, nil, room.Ref.ID, loc.Ref.ID, v)); err != nil {
			t.Fatalf("Create view %d: %v", i, err)
		}
	}

	got, err := repo.ListLocationViews(ctx, loc.Ref.ID, doc.ID)
	if err != nil {
		t.Fatalf("ListLocationViews: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 views, got %d", len(got))
	}
	if got[0].PageNumber != 1 || got[0].View.Type != domain.ViewTypeDetail {
		t.Errorf("first view = %+v, want detail on page 1", got[0])
	}
	if got[2].PageNumber != 3 || got[2].View.Type != domain.ViewTypePlan {
		t.Errorf("last view = %+v, want plan on page 3", got[2])
	}
}
