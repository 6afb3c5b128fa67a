package service

import (
	"context"
	"log/slog"

	"github.com/pointdesk/pointdesk/internal/auth/domain"
	"github.com/pointdesk/pointdesk/pkg/cryptox"
)

// SeedUser describes the initial administrator created on an empty database.
type SeedUser struct {
	Username    string
	Password    string
	DisplayName string
}

// EnsureSeedUser creates the initial admin account when the users table is
// empty and seed credentials were configured. It is a no-op on a populated
// database so restarts never duplicate or reset the account.
func EnsureSeedUser(ctx context.Context, s *AuthService, logger *slog.Logger, seed SeedUser) error {
	if seed.Username == "" || seed.Password == "" {
		return nil
	}

	n, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := cryptox.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	displayName := seed.DisplayName
	if displayName == "" {
		displayName = seed.Username
	}

	id, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:     seed.Username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}

	logger.Info("seeded initial admin user",
		slog.Int64("id", id),
		slog.String("username", seed.Username),
	)
	return nil
}
