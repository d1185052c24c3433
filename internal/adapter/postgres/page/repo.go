// Package page implements the read side of PDF documents and pages using PostgreSQL.
// PDF bytes live elsewhere; this package only knows ids, page numbers and projects.
package page

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/takeoff-backend/internal/adapter/postgres"
	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// Repo provides page lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new page repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetPage returns the page with its document and project ids.
func (r *Repo) GetPage(ctx context.Context, pageID int64) (domain.Page, error) {
	query, args, err := postgres.Builder().
		Select("p.id", "p.document_id", "p.page_number", "d.project_id").
		From("pdf_pages p").
		Join("pdf_documents d ON d.id = p.document_id").
		Where(squirrel.Eq{"p.id": pageID}).
		ToSql()
	if err != nil {
		return domain.Page{}, fmt.Errorf("build get page query: %w", err)
	}

	var p domain.Page
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...)
	if err := row.Scan(&p.ID, &p.DocumentID, &p.PageNumber, &p.ProjectID); err != nil {
		return domain.Page{}, postgres.MapError(err, "pdf_page", pageID)
	}
	return p, nil
}

// CreateDocument registers a document with pageCount sequentially numbered pages.
// Must run inside a transaction so a partial page set is never visible.
func (r *Repo) CreateDocument(ctx context.Context, projectID *int64, title string, pageCount int) (domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	doc := domain.Document{ProjectID: projectID, Title: title}
	query, args, err := postgres.Builder().
		Insert("pdf_documents").
		Columns("project_id", "title").
		Values(projectID, title).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return domain.Document{}, fmt.Errorf("build insert document query: %w", err)
	}
	if err := q.QueryRow(ctx, query, args...).Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return domain.Document{}, postgres.MapError(err, "pdf_document", title)
	}

	if pageCount == 0 {
		doc.Pages = []domain.Page{}
		return doc, nil
	}

	insert := postgres.Builder().Insert("pdf_pages").Columns("document_id", "page_number")
	for n := 1; n <= pageCount; n++ {
		insert = insert.Values(doc.ID, n)
	}
	query, args, err = insert.Suffix("RETURNING id, page_number").ToSql()
	if err != nil {
		return domain.Document{}, fmt.Errorf("build insert pages query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return domain.Document{}, postgres.MapError(err, "pdf_document", doc.ID)
	}
	pages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Page, error) {
		p := domain.Page{DocumentID: doc.ID, ProjectID: projectID}
		err := row.Scan(&p.ID, &p.PageNumber)
		return p, err
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("scan pages of document %d: %w", doc.ID, err)
	}
	doc.Pages = pages
	return doc, nil
}

// GetDocument returns a document with its pages ordered by page number.
func (r *Repo) GetDocument(ctx context.Context, documentID int64) (domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder().
		Select("id", "project_id", "title", "created_at").
		From("pdf_documents").
		Where(squirrel.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return domain.Document{}, fmt.Errorf("build get document query: %w", err)
	}

	var doc domain.Document
	if err := q.QueryRow(ctx, query, args...).Scan(&doc.ID, &doc.ProjectID, &doc.Title, &doc.CreatedAt); err != nil {
		return domain.Document{}, postgres.MapError(err, "pdf_document", documentID)
	}

	query, args, err = postgres.Builder().
		Select("id", "page_number").
		From("pdf_pages").
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("page_number ASC").
		ToSql()
	if err != nil {
		return domain.Document{}, fmt.Errorf("build list pages query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return domain.Document{}, fmt.Errorf("list pages of document %d: %w", documentID, err)
	}
	doc.Pages, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Page, error) {
		p := domain.Page{DocumentID: doc.ID, ProjectID: doc.ProjectID}
		err := row.Scan(&p.ID, &p.PageNumber)
		return p, err
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("scan pages of document %d: %w", documentID, err)
	}
	return doc, nil
}
