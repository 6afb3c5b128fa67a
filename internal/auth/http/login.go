package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pointdesk/pointdesk/internal/auth/service"
	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/pointdesk/pointdesk/pkg/httpx"
	"github.com/pointdesk/pointdesk/pkg/slogx"
)

// LoginHandler serves POST /login.
//
// On success the access token and identity come back in the JSON body while
// the refresh token is set as an httpOnly cookie, so script-visible state
// never includes the long-lived credential.
type LoginHandler struct {
	AuthService  *service.AuthService
	CookieMaxAge int
	CookieSecure bool
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.CookieMaxAge, h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		AccessToken: pair.AccessToken,
		ID:          pair.Identity.ID,
		Name:        pair.Identity.Name,
		Role:        pair.Identity.Role.String(),
	})
}
