package httputil

import (
	"context"
	"net/http"

	"leavechat/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const callerKey contextKey = "caller"

// WithCaller attaches the authenticated caller identity to the request context.
func WithCaller(r *http.Request, caller *models.CallerIdentity) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}

// GetCaller retrieves the caller identity from context, or nil if the
// request never passed the auth middleware.
func GetCaller(r *http.Request) *models.CallerIdentity {
	caller, _ := r.Context().Value(callerKey).(*models.CallerIdentity)
	return caller
}
