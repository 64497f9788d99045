package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"leavechat/internal/auth"
	"leavechat/internal/domain"
	"leavechat/internal/domain/models"
	"leavechat/internal/domain/repositories"
	"leavechat/internal/httputil"
)

// Auth validates the bearer token and resolves the full caller identity
// for the request. For employees the supervisor id is looked up from the
// user table so downstream code never has to trust client-supplied ids.
func Auth(tokens *auth.TokenManager, users repositories.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				httputil.RespondError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			caller := &models.CallerIdentity{
				EmployeeID: claims.UserID,
				Username:   claims.Username,
				Role:       claims.Role,
			}

			if caller.Role == models.RoleEmployee {
				supervisorID, err := lookupSupervisor(r.Context(), users, caller.Username)
				if err != nil {
					logger.Error("supervisor lookup failed",
						"username", caller.Username,
						"error", err,
					)
					httputil.RespondError(w, http.StatusInternalServerError, "failed to resolve caller identity")
					return
				}
				caller.SupervisorID = supervisorID
			}

			next.ServeHTTP(w, httputil.WithCaller(r, caller))
		})
	}
}

func lookupSupervisor(ctx context.Context, users repositories.UserRepository, username string) (string, error) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		// An account deleted after token issue still carries a valid
		// token; treat it as having no supervisor rather than failing
		// the whole request.
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.SupervisorID, nil
}
