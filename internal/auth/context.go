package auth

import (
	"context"

	"github.com/fitbite/server/internal/userctx"
)

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return userctx.WithUserID(ctx, userID)
}

// GetUserID reads the authenticated user id from the context.
func GetUserID(ctx context.Context) (string, bool) {
	return userctx.GetUserID(ctx)
}
