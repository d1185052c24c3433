package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey string

const (
	userIDKey    ctxKey = "user_id"
	requestIDKey ctxKey = "request_id"
)

// WithUserID stores the user ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the user ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Actor identifies the caller behind a mutation.
type Actor struct {
	UserID    uuid.UUID // uuid.Nil for anonymous requests
	RequestID string
}

// Anonymous reports whether no authenticated user is attached.
func (a Actor) Anonymous() bool { return a.UserID == uuid.Nil }

// ActorFromCtx collects the user and request ids stored in ctx.
func ActorFromCtx(ctx context.Context) Actor {
	userID, _ := UserIDFromCtx(ctx)
	return Actor{UserID: userID, RequestID: RequestIDFromCtx(ctx)}
}

// LogAttrs returns the request correlation attributes present in ctx.
// The user_id attribute is omitted for anonymous requests.
func LogAttrs(ctx context.Context) []slog.Attr {
	actor := ActorFromCtx(ctx)
	attrs := []slog.Attr{slog.String("request_id", actor.RequestID)}
	if !actor.Anonymous() {
		attrs = append(attrs, slog.String("user_id", actor.UserID.String()))
	}
	return attrs
}
