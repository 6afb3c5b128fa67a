package http

import (
	"net/http"

	"github.com/pointdesk/pointdesk/internal/auth/service"
	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/pointdesk/pointdesk/pkg/httpx"
)

// LogoutHandler serves POST /logout.
//
// Logout always succeeds. Whatever state the cookie is in, the response
// clears it and reports success; there is no failure a client could act on.
type LogoutHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.AuthService.Logout(r.Context(), refreshCookieValue(r))

	clearRefreshCookie(w, h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LogoutResponse{Success: true})
}
