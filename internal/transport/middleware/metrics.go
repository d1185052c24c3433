package middleware

import "net/http"

type httpRecorder interface {
	ObserveHTTP(method string, status int)
}

// Metrics counts served requests by method and status code.
func Metrics(recorder httpRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			recorder.ObserveHTTP(r.Method, sw.status)
		})
	}
}
