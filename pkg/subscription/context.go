package subscription

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// WithUserID stores the authenticated user's ID in the context. The HTTP
// layer sets it after authentication; entitlement middleware reads it back.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext extracts the authenticated user's ID. The second return
// is false when no user is attached.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
