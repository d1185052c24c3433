package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/heartmarshall/takeoff-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// Auth resolves the bearer token into a user id stored in the context.
// A request carrying an invalid token is rejected. A request without a token
// passes through anonymously unless requireAuth is set.
func Auth(validator tokenValidator, requireAuth bool, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				if requireAuth {
					writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", ctxutil.RequestIDFromCtx(r.Context()))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			userID, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", slog.String("error", err.Error()))
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", ctxutil.RequestIDFromCtx(r.Context()))
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), userID)))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
