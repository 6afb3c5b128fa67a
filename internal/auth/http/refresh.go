package http

import (
	"errors"
	"net/http"

	"github.com/pointdesk/pointdesk/internal/auth/service"
	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/pointdesk/pointdesk/pkg/httpx"
	"github.com/pointdesk/pointdesk/pkg/slogx"
)

// RefreshHandler serves POST /refresh.
//
// The request carries no body; the refresh token arrives only in the cookie.
// A missing cookie is 401 no_session (recoverable by logging in), while a
// dead token is 403 session_expired (terminal, the client must not retry).
// Neither failure path touches the cookie: a stale cookie on its own is
// harmless and the next login overwrites it.
type RefreshHandler struct {
	AuthService  *service.AuthService
	CookieMaxAge int
	CookieSecure bool
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := refreshCookieValue(r)
	if token == "" {
		authsdk.ErrNoSession.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrSessionExpired) {
			authsdk.ErrSessionExpired.WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.CookieMaxAge, h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		AccessToken: pair.AccessToken,
		User: authsdk.UserPayload{
			ID:   pair.Identity.ID,
			Name: pair.Identity.Name,
			Role: pair.Identity.Role.String(),
		},
	})
}
