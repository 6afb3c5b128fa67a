package service

import (
	"context"
	"errors"

	"github.com/pointdesk/pointdesk/internal/auth/domain"
	"github.com/pointdesk/pointdesk/internal/auth/store"
)

var ErrUserNotFound = errors.New("user_not_found")

// UserService serves profile lookups for authenticated handlers.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
