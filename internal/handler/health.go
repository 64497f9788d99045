package handler

import (
	"net/http"

	"leavechat/internal/httputil"
)

// Health reports liveness.
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
