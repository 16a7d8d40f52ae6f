package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/aashishkarki002/tenant-management-sub004/internal/handler"
	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
)

// Recovery turns a handler panic into a 500 that echoes the request id.
// http.ErrAbortHandler is re-raised so the server still drops the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}

			requestID := TraceIDFromContext(r.Context())
			logging.FromContext(r.Context()).Error("handler panicked",
				"panic", fmt.Sprint(p),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			handler.RespondJSON(w, http.StatusInternalServerError, handler.ErrorResponse{
				Error:     "an unexpected error occurred",
				RequestID: requestID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
