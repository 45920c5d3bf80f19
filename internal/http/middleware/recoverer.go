package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/learnhub/learning-api/internal/utils/response"
)

// Recoverer turns a panicking handler into a 500 response. The panic
// value reaches the client only outside production (see
// response.SetExposeInternal).
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				log.Error("unhandled panic",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
					slog.String("stack", string(debug.Stack())),
				)
				response.WriteJSON(w, http.StatusInternalServerError, response.InternalError(err))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
