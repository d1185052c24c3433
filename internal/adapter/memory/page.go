package memory

import (
	"context"
	"sort"
	"time"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

// PageRepo is the in-memory page directory.
type PageRepo struct {
	store *Store
}

// GetPage returns the page with its document and project ids.
func (r *PageRepo) GetPage(ctx context.Context, pageID int64) (domain.Page, error) {
	var out domain.Page
	err := r.store.read(ctx, func(st *memoryState) error {
		p, ok := st.pages[pageID]
		if !ok {
			return notFound("pdf_page", pageID)
		}
		out = p
		out.ProjectID = clonePtr(p.ProjectID)
		return nil
	})
	return out, err
}

// CreateDocument registers a document with pageCount sequentially numbered pages.
func (r *PageRepo) CreateDocument(ctx context.Context, projectID *int64, title string, pageCount int) (domain.Document, error) {
	var out domain.Document
	err := r.store.write(ctx, func(st *memoryState, now time.Time) error {
		doc := domain.Document{
			ID:        st.nextID("pdf_documents"),
			ProjectID: clonePtr(projectID),
			Title:     title,
			CreatedAt: now,
		}
		st.documents[doc.ID] = doc

		out = doc
		out.Pages = make([]domain.Page, 0, pageCount)
		for n := 1; n <= pageCount; n++ {
			p := domain.Page{ID: st.nextID("pdf_pages"), DocumentID: doc.ID, PageNumber: n, ProjectID: clonePtr(projectID)}
			st.pages[p.ID] = p
			out.Pages = append(out.Pages, p)
		}
		return nil
	})
	return out, err
}

// GetDocument returns a document with its pages ordered by page number.
func (r *PageRepo) GetDocument(ctx context.Context, documentID int64) (domain.Document, error) {
	var out domain.Document
	err := r.store.read(ctx, func(st *memoryState) error {
		doc, ok := st.documents[documentID]
		if !ok {
			return notFound("pdf_document", documentID)
		}
		out = doc
		out.Pages = []domain.Page{}
		for _, p := range st.pages {
			if p.DocumentID == documentID {
				out.Pages = append(out.Pages, p)
			}
		}
		return nil
	})
	sort.Slice(out.Pages, func(i, j int) bool { return out.Pages[i].PageNumber < out.Pages[j].PageNumber })
	return out, err
}
