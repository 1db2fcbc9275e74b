package util

import (
	"net/http"
	"runtime/debug"
)

// WithRecover converts a handler panic into a call to onPanic and logs the
// stack. http.ErrAbortHandler is re-raised.
func WithRecover(onPanic http.HandlerFunc, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			LoggerFromContext(r.Context()).Error("handler panic", "panic", rec, "stack", string(debug.Stack()))
			onPanic(w, r)
		}()
		next.ServeHTTP(w, r)
	})
}
