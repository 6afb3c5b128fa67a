package http

import (
	"errors"
	"net/http"

	"github.com/pointdesk/pointdesk/internal/auth/service"
	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/pointdesk/pointdesk/pkg/httpx"
	"github.com/pointdesk/pointdesk/pkg/slogx"
)

// MeHandler serves GET /v1/me. Requires AuthnMiddleware upstream; the user id
// comes from the verified access token, then the profile is read fresh from
// the store so a stale token never serves stale profile fields.
type MeHandler struct {
	UserService *service.UserService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	u, err := h.UserService.GetUserByID(ctx, id.UID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Token outlived the account.
			authsdk.ErrUnauthenticated.WriteError(w)
			return
		}
		log.Error("profile lookup failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MeResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.DisplayName,
		Role:     u.Role.String(),
	})
}
