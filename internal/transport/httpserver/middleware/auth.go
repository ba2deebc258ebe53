package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"garden-planner-go/internal/auth"
	"garden-planner-go/pkg/logger"
)

type TokenParser interface {
	Parse(token string) (auth.Principal, error)
}

type contextKey int

const (
	principalKey contextKey = iota
	peerAddrKey
)

// Authenticator turns a bearer token into a principal on the request context.
type Authenticator struct {
	tokens TokenParser
	log    logger.Logger
}

func NewAuthenticator(tokens TokenParser, log logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, log: log}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		principal, err := a.tokens.Parse(token)
		if err != nil {
			logger.FromContext(r.Context(), a.log).BusinessError("auth: token rejected", err, "path", r.URL.Path)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireRoles rejects principals holding none of roles with 403.
func RequireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !principal.Roles.HasAny(roles...) {
				writeError(w, http.StatusForbidden, "forbidden", "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(auth.Principal)
	if !ok || principal.Email == "" {
		return auth.Principal{}, false
	}
	return principal, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
