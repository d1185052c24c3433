package autocomplete

import (
	"context"
	"sync"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

var _ entityLinker = &entityLinkerMock{}

type entityLinkerMock struct {
	FindOrCreateFunc func(ctx context.Context, kind domain.AnnotationType, name string, attrs domain.EntityAttributes, projectID, parentID *int64) (domain.Entity, bool, error)

	calls struct {
		FindOrCreate []struct {
			Ctx       context.Context
			Kind      domain.AnnotationType
			Name      string
			Attrs     domain.EntityAttributes
			ProjectID *int64
			ParentID  *int64
		}
	}
	lockFindOrCreate sync.RWMutex
}

func (mock *entityLinkerMock) FindOrCreate(ctx context.Context, kind domain.AnnotationType, name string, attrs domain.EntityAttributes, projectID, parentID *int64) (domain.Entity, bool, error) {
	if mock.FindOrCreateFunc == nil {
		panic("entityLinkerMock.FindOrCreateFunc: method is nil but entityLinker.FindOrCreate was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Kind      domain.AnnotationType
		Name      string
		Attrs     domain.EntityAttributes
		ProjectID *int64
		ParentID  *int64
	}{Ctx: ctx, Kind: kind, Name: name, Attrs: attrs, ProjectID: projectID, ParentID: parentID}
	mock.lockFindOrCreate.Lock()
	mock.calls.FindOrCreate = append(mock.calls.FindOrCreate, callInfo)
	mock.lockFindOrCreate.Unlock()
	return mock.FindOrCreateFunc(ctx, kind, name, attrs, projectID, parentID)
}

func (mock *entityLinkerMock) FindOrCreateCalls() []struct {
	Ctx       context.Context
	Kind      domain.AnnotationType
	Name      string
	Attrs     domain.EntityAttributes
	ProjectID *int64
	ParentID  *int64
} {
	mock.lockFindOrCreate.RLock()
	calls := mock.calls.FindOrCreate
	mock.lockFindOrCreate.RUnlock()
	return calls
}
