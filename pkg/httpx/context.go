package httpx

import (
	"context"

	"github.com/pointdesk/pointdesk/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyIdentity ctxKey = "identity"
)

// IdentityFromContext returns the verified identity the authn middleware
// attached to the request context.
func IdentityFromContext(ctx context.Context) (jwtx.Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(jwtx.Identity)
	return id, ok
}

// UserIDFromContext returns the authenticated user's id, or 0 when the
// request did not pass through the authn middleware.
func UserIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(CtxKeyUserID).(int64); ok {
		return v
	}
	return 0
}
