package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/model"
	"github.com/harulog/harulog/internal/repository"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the authenticated user value.
type contextKey string

const userKey contextKey = "user"

// RequireAuth enforces authentication on protected routes.
//
// For each request it resolves the caller's identity from scratch:
//
//  1. Authorization header with a Bearer scheme (case-insensitive);
//     missing or wrong scheme → 401.
//  2. Token decodes and verifies → else 401.
//  3. Token subject resolves to a stored user → else 401. The response
//     body does not reveal whether it was the token or the user that
//     failed. A store failure during the lookup is 503, not 401.
//  4. User is active → else 403.
//
// On success the full user record is stored in the request context for
// handlers to read via UserFromContext. There is no caching: a deactivated
// user is locked out on their very next request.
func RequireAuth(tokens *TokenService, users repository.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "valid authentication required")
				return
			}

			claims, err := tokens.Decode(tokenStr)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					// Same status as a bad token: a probing client cannot
					// tell stale tokens from deleted accounts.
					logger.Debug("token subject not found", slog.String("subject", claims.Subject))
					unauthorized(w, "user not found for token")
					return
				}
				// A store failure is not an identity verdict.
				logger.Error("user lookup failed", slog.String("error", err.Error()))
				writeAuthError(w, http.StatusServiceUnavailable, "unavailable", "could not verify identity")
				return
			}

			if !user.IsActive {
				forbidden(w, "account is deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user set by RequireAuth.
// The second return is false for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	writeAuthError(w, http.StatusUnauthorized, "unauthenticated", detail)
}

func forbidden(w http.ResponseWriter, detail string) {
	writeAuthError(w, http.StatusForbidden, "forbidden", detail)
}

// writeAuthError emits the same error shape as the handler package without
// importing it (the handler package imports this one).
func writeAuthError(w http.ResponseWriter, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":  code,
		"detail": detail,
	})
}
