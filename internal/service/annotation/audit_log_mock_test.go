package annotation

import (
	"context"
	"sync"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

var _ auditLog = &auditLogMock{}

type auditLogMock struct {
	AppendFunc           func(ctx context.Context, record domain.AuditRecord) error
	ListByAnnotationFunc func(ctx context.Context, annotationID int64, limit int) ([]domain.AuditRecord, error)

	calls struct {
		Append []struct {
			Ctx    context.Context
			Record domain.AuditRecord
		}
		ListByAnnotation []struct {
			Ctx          context.Context
			AnnotationID int64
			Limit        int
		}
	}
	lockAppend           sync.RWMutex
	lockListByAnnotation sync.RWMutex
}

func (mock *auditLogMock) Append(ctx context.Context, record domain.AuditRecord) error {
	if mock.AppendFunc == nil {
		panic("auditLogMock.AppendFunc: method is nil but auditLog.Append was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Record domain.AuditRecord
	}{Ctx: ctx, Record: record}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, record)
}

func (mock *auditLogMock) AppendCalls() []struct {
	Ctx    context.Context
	Record domain.AuditRecord
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *auditLogMock) ListByAnnotation(ctx context.Context, annotationID int64, limit int) ([]domain.AuditRecord, error) {
	if mock.ListByAnnotationFunc == nil {
		panic("auditLogMock.ListByAnnotationFunc: method is nil but auditLog.ListByAnnotation was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		AnnotationID int64
		Limit        int
	}{Ctx: ctx, AnnotationID: annotationID, Limit: limit}
	mock.lockListByAnnotation.Lock()
	mock.calls.ListByAnnotation = append(mock.calls.ListByAnnotation, callInfo)
	mock.lockListByAnnotation.Unlock()
	return mock.ListByAnnotationFunc(ctx, annotationID, limit)
}

func (mock *auditLogMock) ListByAnnotationCalls() []struct {
	Ctx          context.Context
	AnnotationID int64
	Limit        int
} {
	mock.lockListByAnnotation.RLock()
	calls := mock.calls.ListByAnnotation
	mock.lockListByAnnotation.RUnlock()
	return calls
}
