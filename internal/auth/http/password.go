package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pointdesk/pointdesk/internal/auth/service"
	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/pointdesk/pointdesk/pkg/httpx"
	"github.com/pointdesk/pointdesk/pkg/slogx"
)

// minPasswordLength applies to new passwords only; existing hashes are
// accepted however they were minted.
const minPasswordLength = 8

// PasswordHandler serves PUT /v1/password. Requires AuthnMiddleware upstream.
// A successful change revokes every refresh token the user holds, so the
// clearing Set-Cookie tells this browser its own cookie is dead too.
type PasswordHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	var req authsdk.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if req.CurrentPassword == "" || len(req.NewPassword) < minPasswordLength {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.ChangePassword(ctx, id.UID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("password change failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	clearRefreshCookie(w, h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.ChangePasswordResponse{Success: true})
}
