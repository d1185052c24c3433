package views

import (
	"context"
	"sync"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

var _ locationViewReader = &locationViewReaderMock{}

type locationViewReaderMock struct {
	ListLocationViewsFunc func(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error)

	calls struct {
		ListLocationViews []struct {
			Ctx        context.Context
			LocationID int64
			DocumentID int64
		}
	}
	lockListLocationViews sync.RWMutex
}

func (mock *locationViewReaderMock) ListLocationViews(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error) {
	if mock.ListLocationViewsFunc == nil {
		panic("locationViewReaderMock.ListLocationViewsFunc: method is nil but locationViewReader.ListLocationViews was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		LocationID int64
		DocumentID int64
	}{Ctx: ctx, LocationID: locationID, DocumentID: documentID}
	mock.lockListLocationViews.Lock()
	mock.calls.ListLocationViews = append(mock.calls.ListLocationViews, callInfo)
	mock.lockListLocationViews.Unlock()
	return mock.ListLocationViewsFunc(ctx, locationID, documentID)
}

func (mock *locationViewReaderMock) ListLocationViewsCalls() []struct {
	Ctx        context.Context
	LocationID int64
	DocumentID int64
} {
	mock.lockListLocationViews.RLock()
	calls := mock.calls.ListLocationViews
	mock.lockListLocationViews.RUnlock()
	return calls
}
