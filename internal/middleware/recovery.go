package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"leavechat/internal/httputil"
)

// Recovery converts a handler panic into a plain 500 so one bad chat
// turn cannot take the server down. The stack goes to the log only;
// the client sees nothing of it.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("handler panicked",
						"panic", v,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
