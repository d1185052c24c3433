package autocomplete

import (
	"context"
	"sync"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

var _ annotationStore = &annotationStoreMock{}

type annotationStoreMock struct {
	GetByIDFunc func(ctx context.Context, id int64) (domain.Annotation, error)
	CreateFunc  func(ctx context.Context, a domain.Annotation) (domain.Annotation, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  int64
		}
		Create []struct {
			Ctx context.Context
			A   domain.Annotation
		}
	}
	lockGetByID sync.RWMutex
	lockCreate  sync.RWMutex
}

func (mock *annotationStoreMock) GetByID(ctx context.Context, id int64) (domain.Annotation, error) {
	if mock.GetByIDFunc == nil {
		panic("annotationStoreMock.GetByIDFunc: method is nil but annotationStore.GetByID was just called")
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

func (mock *annotationStoreMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *annotationStoreMock) Create(ctx context.Context, a domain.Annotation) (domain.Annotation, error) {
	if mock.CreateFunc == nil {
		panic("annotationStoreMock.CreateFunc: method is nil but annotationStore.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		A   domain.Annotation
	}{Ctx: ctx, A: a}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, a)
}

func (mock *annotationStoreMock) CreateCalls() []struct {
	Ctx context.Context
	A   domain.Annotation
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}
