package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	doc := SeedDocument(t, pool, 2)

	// Verify pages exist in DB via SELECT.
	var count int
	err := pool.QueryRow(
		context.Background(),
		`SELECT count(*) FROM pdf_pages WHERE document_id = $1`,
		doc.ID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("expected pages in DB, got error: %v", err)
	}

	if count != 2 {
		t.Fatalf("expected 2 pages, got %d", count)
	}
}
