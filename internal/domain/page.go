package domain

import "time"

// Page is the read-only view of a PDF page the save engine needs.
type Page struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	PageNumber int    `json:"page_number"`
	ProjectID  *int64 `json:"project_id,omitempty"`
}

// Document is a registered floor-plan PDF and its pages.
type Document struct {
	ID        int64     `json:"id"`
	ProjectID *int64    `json:"project_id,omitempty"`
	Title     string    `json:"title"`
	Pages     []Page    `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
}
