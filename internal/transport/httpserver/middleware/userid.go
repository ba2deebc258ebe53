package middleware

import (
	"context"
	"errors"
	"net/http"

	userdomain "garden-planner-go/internal/domain/user"
	"garden-planner-go/pkg/logger"
)

var errSubjectMismatch = errors.New("token subject does not match the account")

type UserIDResolver interface {
	ResolveID(ctx context.Context, email string) (string, error)
}

// ResolveUserID confirms the principal still maps to an active account and
// fills Principal.UserID. The lookup goes through the user id cache, which
// user update and delete invalidate, so a deleted or renamed account stops
// authenticating. A subject claim must agree with the resolved id.
func ResolveUserID(users UserIDResolver, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			reqLog := logger.FromContext(r.Context(), log)

			id, err := users.ResolveID(r.Context(), principal.Email)
			if err != nil {
				if errors.Is(err, userdomain.ErrUserNotFound) {
					reqLog.BusinessError("auth: principal has no account", err, "email", principal.Email)
					unauthorized(w)
					return
				}
				reqLog.InternalError("auth: resolve user id failed", err, "email", principal.Email)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
			if principal.UserID != "" && principal.UserID != id {
				reqLog.BusinessError("auth: stale token", errSubjectMismatch, "email", principal.Email, "subject", principal.UserID)
				unauthorized(w)
				return
			}

			principal.UserID = id
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
