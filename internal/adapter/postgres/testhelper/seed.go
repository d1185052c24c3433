package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDocument creates a document under a random project id with pageCount pages.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, pageCount int) domain.Document {
	t.Helper()
	ctx := context.Background()

	projectID := int64(uuid.New().ID())

	doc := domain.Document{ProjectID: &projectID, Title: "plan-" + uniqueSuffix()}
	err := pool.QueryRow(ctx,
		`INSERT INTO pdf_documents (project_id, title) VALUES ($1, $2) RETURNING id, created_at`,
		projectID, doc.Title,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument insert document: %v", err)
	}

	for n := 1; n <= pageCount; n++ {
		p := domain.Page{DocumentID: doc.ID, PageNumber: n, ProjectID: &projectID}
		err := pool.QueryRow(ctx,
			`INSERT INTO pdf_pages (document_id, page_number) VALUES ($1, $2) RETURNING id`,
			doc.ID, n,
		).Scan(&p.ID)
		if err != nil {
			t.Fatalf("testhelper: SeedDocument insert page %d: %v", n, err)
		}
		doc.Pages = append(doc.Pages, p)
	}

	return doc
}

// SeedRoom creates a room entity with a unique name under projectID.
func SeedRoom(t *testing.T, pool *pgxpool.Pool, projectID *int64) domain.Entity {
	t.Helper()

	e := domain.Entity{Ref: domain.EntityRef{Kind: domain.AnnotationTypeRoom}, Name: "Room " + uniqueSuffix(), ProjectID: projectID}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO rooms (project_id, name) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		projectID, e.Name,
	).Scan(&e.Ref.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedRoom insert: %v", err)
	}
	return e
}

// SeedLocation creates a location entity named name under roomID.
func SeedLocation(t *testing.T, pool *pgxpool.Pool, roomID int64, name string) domain.Entity {
	t.Helper()

	e := domain.Entity{Ref: domain.EntityRef{Kind: domain.AnnotationTypeLocation}, Name: name, ParentID: &roomID}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO room_locations (room_id, name) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		roomID, name,
	).Scan(&e.Ref.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedLocation insert: %v", err)
	}
	return e
}

// SeedAnnotation inserts an annotation row of typ on pageID with plan view geometry.
func SeedAnnotation(t *testing.T, pool *pgxpool.Pool, pageID int64, typ domain.AnnotationType, parentID *int64, label string) domain.Annotation {
	t.Helper()

	a := domain.Annotation{
		Type:     typ,
		ParentID: parentID,
		Geometry: domain.Geometry{PageID: pageID, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2, Color: "#ff0000"},
		View:     domain.View{Type: domain.ViewTypePlan},
		Label:    label,
	}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO pdf_page_annotations
		   (pdf_page_id, annotation_type, parent_annotation_id, x, y, width, height, color, view_type, label)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		pageID, string(typ), parentID, a.Geometry.X, a.Geometry.Y, a.Geometry.Width, a.Geometry.Height,
		a.Geometry.Color, string(a.View.Type), label,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedAnnotation insert: %v", err)
	}
	return a
}
