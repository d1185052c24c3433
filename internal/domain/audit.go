package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is an immutable before/after snapshot of one annotation mutation.
type AuditRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RequestID    string
	AnnotationID int64
	PageID       int64
	Action       AuditAction
	Before       json.RawMessage
	After        json.RawMessage
	CreatedAt    time.Time
}

// Snapshot serializes an annotation for the audit trail. A nil annotation yields nil.
func Snapshot(a *Annotation) (json.RawMessage, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Notice is an advisory message delivered to the user after a save commits.
type Notice struct {
	Kind     NoticeKind     `json:"kind"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Severity NoticeSeverity `json:"severity"`
}

// NoticeKind identifies what produced a notice.
type NoticeKind string

const (
	NoticeDuplicateView  NoticeKind = "duplicate_view"
	NoticeRunAutoCreated NoticeKind = "run_auto_created"
)
