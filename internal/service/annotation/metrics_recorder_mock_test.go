package annotation

import (
	"sync"
	"time"
)

var _ metricsRecorder = &metricsRecorderMock{}

type metricsRecorderMock struct {
	ObserveSaveFunc func(mode, annotationType, result string, d time.Duration)
	IncNoticeFunc   func(kind string)

	calls struct {
		ObserveSave []struct {
			Mode           string
			AnnotationType string
			Result         string
			D              time.Duration
		}
		IncNotice []struct {
			Kind string
		}
	}
	lockObserveSave sync.RWMutex
	lockIncNotice   sync.RWMutex
}

func (mock *metricsRecorderMock) ObserveSave(mode, annotationType, result string, d time.Duration) {
	if mock.ObserveSaveFunc == nil {
		panic("metricsRecorderMock.ObserveSaveFunc: method is nil but metricsRecorder.ObserveSave was just called")
	}
	callInfo := struct {
		Mode           string
		AnnotationType string
		Result         string
		D              time.Duration
	}{Mode: mode, AnnotationType: annotationType, Result: result, D: d}
	mock.lockObserveSave.Lock()
	mock.calls.ObserveSave = append(mock.calls.ObserveSave, callInfo)
	mock.lockObserveSave.Unlock()
	mock.ObserveSaveFunc(mode, annotationType, result, d)
}

func (mock *metricsRecorderMock) ObserveSaveCalls() []struct {
	Mode           string
	AnnotationType string
	Result         string
	D              time.Duration
} {
	mock.lockObserveSave.RLock()
	calls := mock.calls.ObserveSave
	mock.lockObserveSave.RUnlock()
	return calls
}

func (mock *metricsRecorderMock) IncNotice(kind string) {
	if mock.IncNoticeFunc == nil {
		panic("metricsRecorderMock.IncNoticeFunc: method is nil but metricsRecorder.IncNotice was just called")
	}
	callInfo := struct {
		Kind string
	}{Kind: kind}
	mock.lockIncNotice.Lock()
	mock.calls.IncNotice = append(mock.calls.IncNotice, callInfo)
	mock.lockIncNotice.Unlock()
	mock.IncNoticeFunc(kind)
}

func (mock *metricsRecorderMock) IncNoticeCalls() []struct {
	Kind string
} {
	mock.lockIncNotice.RLock()
	calls := mock.calls.IncNotice
	mock.lockIncNotice.RUnlock()
	return calls
}
