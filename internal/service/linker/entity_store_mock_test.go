package linker

import (
	"context"
	"sync"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

var _ entityStore = &entityStoreMock{}

type entityStoreMock struct {
	GetFunc        func(ctx context.Context, ref domain.EntityRef) (domain.Entity, error)
	FindByNameFunc func(ctx context.Context, kind domain.AnnotationType, name string, scopeID *int64) (domain.Entity, error)
	CreateFunc     func(ctx context.Context, draft domain.EntityDraft) (domain.Entity, error)
	UpdateFunc     func(ctx context.Context, ref domain.EntityRef, attrs domain.EntityAttributes) (bool, error)

	calls struct {
		Get []struct {
			Ctx context.Context
			Ref domain.EntityRef
		}
		FindByName []struct {
			Ctx     context.Context
			Kind    domain.AnnotationType
			Name    string
			ScopeID *int64
		}
		Create []struct {
			Ctx   context.Context
			Draft domain.EntityDraft
		}
		Update []struct {
			Ctx   context.Context
			Ref   domain.EntityRef
			Attrs domain.EntityAttributes
		}
	}
	lockGet        sync.RWMutex
	lockFindByName sync.RWMutex
	lockCreate     sync.RWMutex
	lockUpdate     sync.RWMutex
}

func (mock *entityStoreMock) Get(ctx context.Context, ref domain.EntityRef) (domain.Entity, error) {
	if mock.GetFunc == nil {
		panic("entityStoreMock.GetFunc: method is nil but entityStore.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ref domain.EntityRef
	}{Ctx: ctx, Ref: ref}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, ref)
}

func (mock *entityStoreMock) GetCalls() []struct {
	Ctx context.Context
	Ref domain.EntityRef
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *entityStoreMock) FindByName(ctx context.Context, kind domain.AnnotationType, name string, scopeID *int64) (domain.Entity, error) {
	if mock.FindByNameFunc == nil {
		panic("entityStoreMock.FindByNameFunc: method is nil but entityStore.FindByName was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Kind    domain.AnnotationType
		Name    string
		ScopeID *int64
	}{Ctx: ctx, Kind: kind, Name: name, ScopeID: scopeID}
	mock.lockFindByName.Lock()
	mock.calls.FindByName = append(mock.calls.FindByName, callInfo)
	mock.lockFindByName.Unlock()
	return mock.FindByNameFunc(ctx, kind, name, scopeID)
}

func (mock *entityStoreMock) FindByNameCalls() []struct {
	Ctx     context.Context
	Kind    domain.AnnotationType
	Name    string
	ScopeID *int64
} {
	mock.lockFindByName.RLock()
	calls := mock.calls.FindByName
	mock.lockFindByName.RUnlock()
	return calls
}

func (mock *entityStoreMock) Create(ctx context.Context, draft domain.EntityDraft) (domain.Entity, error) {
	if mock.CreateFunc == nil {
		panic("entityStoreMock.CreateFunc: method is nil but entityStore.Create was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Draft domain.EntityDraft
	}{Ctx: ctx, Draft: draft}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, draft)
}

func (mock *entityStoreMock) CreateCalls() []struct {
	Ctx   context.Context
	Draft domain.EntityDraft
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *entityStoreMock) Update(ctx context.Context, ref domain.EntityRef, attrs domain.EntityAttributes) (bool, error) {
	if mock.UpdateFunc == nil {
		panic("entityStoreMock.UpdateFunc: method is nil but entityStore.Update was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Ref   domain.EntityRef
		Attrs domain.EntityAttributes
	}{Ctx: ctx, Ref: ref, Attrs: attrs}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, ref, attrs)
}

func (mock *entityStoreMock) UpdateCalls() []struct {
	Ctx   context.Context
	Ref   domain.EntityRef
	Attrs domain.EntityAttributes
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}
