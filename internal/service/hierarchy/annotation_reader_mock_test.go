package hierarchy

import (
	"context"
	"sync"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

var _ annotationReader = &annotationReaderMock{}

type annotationReaderMock struct {
	GetByIDFunc func(ctx context.Context, id int64) (domain.Annotation, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  int64
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *annotationReaderMock) GetByID(ctx context.Context, id int64) (domain.Annotation, error) {
	if mock.GetByIDFunc == nil {
		panic("annotationReaderMock.GetByIDFunc: method is nil but annotationReader.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  int64
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *annotationReaderMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
