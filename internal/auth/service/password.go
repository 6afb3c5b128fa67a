package service

import (
	"context"
	"errors"

	"github.com/pointdesk/pointdesk/internal/auth/domain"
	"github.com/pointdesk/pointdesk/internal/auth/store"
	"github.com/pointdesk/pointdesk/pkg/cryptox"
)

// ChangePassword verifies the current password, stores the new hash, and
// revokes every refresh token the user holds in the same transaction. Open
// sessions keep working until their access token expires, then fail to
// refresh and land back on login.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, u.ID, newHash); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, u.ID)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, u.ID, domain.AuditActionPasswordChange, "password changed, sessions revoked")

	return nil
}
