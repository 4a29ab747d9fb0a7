package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/redmonkez12/go-auth-api/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const TokenContextKey ContextKey = "auth_token"

// LegacyTokenHeader is accepted alongside Authorization: Bearer
const LegacyTokenHeader = "x-auth-token"

// RequireToken rejects requests that carry no bearer token and stores the raw
// token in the request context. Verification happens in the service.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ExtractToken(r)
		if !ok {
			httputil.RespondMessage(w, httputil.MsgInvalidToken, http.StatusUnauthorized)
			return
		}
		if token == "" {
			httputil.RespondMessage(w, httputil.MsgNoToken, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), TokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractToken reads the token from Authorization first, then x-auth-token.
// ok is false when an Authorization header is present but not a Bearer token.
func ExtractToken(r *http.Request) (token string, ok bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		scheme, value, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		value = strings.TrimSpace(value)
		return value, value != ""
	}

	return strings.TrimSpace(r.Header.Get(LegacyTokenHeader)), true
}

// TokenFromContext returns the token stored by RequireToken
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok && token != ""
}
