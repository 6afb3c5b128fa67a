package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pointdesk/pointdesk/pkg/jwtx"
	"github.com/pointdesk/pointdesk/pkg/slogx"
)

// AccessVerifier validates a bearer access token and returns its claims.
// *jwtx.Codec satisfies this.
type AccessVerifier interface {
	VerifyAccess(token string) (jwtx.Claims, error)
}

// AuthnMiddleware gates protected routes on a valid access token. Both the
// missing-token and invalid-token cases answer a uniform 401 so the client
// interceptor can treat either as "needs refresh". Role checks belong to
// the routes themselves, not here.
func AuthnMiddleware(v AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "token not provided")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.VerifyAccess(raw)
			if err != nil {
				writeBearerError(w, "invalid or expired token")
				log.Warn("access token verify failed", "err", err)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithIdentity(ctx, claims.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithIdentity(ctx context.Context, id jwtx.Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UID)
	ctx = context.WithValue(ctx, CtxKeyIdentity, id)
	return ctx
}

// RFC 6750-compliant error response for bearer auth, with a JSON body the
// dashboard client can surface.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "unauthenticated",
		"error_description": desc,
	})
}
