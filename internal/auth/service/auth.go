package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pointdesk/pointdesk/internal/auth/domain"
	"github.com/pointdesk/pointdesk/internal/auth/store"
	"github.com/pointdesk/pointdesk/pkg/cryptox"
	"github.com/pointdesk/pointdesk/pkg/idx"
	"github.com/pointdesk/pointdesk/pkg/jwtx"
	"github.com/pointdesk/pointdesk/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
)

// AuthService implements the session lifecycle: credential login, silent
// refresh with rotation, and logout. It issues paired access/refresh tokens
// through the codec and keeps refresh fingerprints in the store so a
// rotated-out or revoked token can be rejected.
type AuthService struct {
	Store store.Store
	Codec *jwtx.Codec
}

// dummyHash is verified against when the username is unknown, so login
// latency does not reveal whether an account exists.
var dummyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword(idx.New().String())
	if err != nil {
		return ""
	}
	return h
})

// Login validates the credentials and, on success, issues a fresh token pair
// and records the refresh fingerprint. Unknown usernames and wrong passwords
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn an argon2 verification anyway to keep timing flat.
			if h := dummyHash(); h != "" {
				_ = cryptox.VerifyPassword(password, h)
			}
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, s.Store, u, now)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, u.ID, domain.AuditActionLogin, "credential login")

	return pair, nil
}

// Refresh rotates the session: it verifies the presented refresh token,
// checks its fingerprint is still live, re-reads the user so role changes
// take effect, then revokes the old fingerprint and issues a new pair in one
// transaction. A missing, revoked, or expired fingerprint means the session
// is gone for good and the client must log in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	now := time.Now()

	if _, err := s.Codec.VerifyRefresh(refreshToken); err != nil {
		return nil, ErrSessionExpired
	}

	fp := cryptox.FingerprintToken(refreshToken)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	if rt.Revoked || now.After(rt.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	// Re-read the user so the new pair carries the current display name and
	// role, not the ones captured at login.
	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, tx, u, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes the presented refresh token's fingerprint. It never fails
// the caller: an absent, garbled, or already-revoked token still counts as
// logged out.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	l := slogx.FromContext(ctx)

	if refreshToken == "" {
		return
	}

	fp := cryptox.FingerprintToken(refreshToken)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Warn("logout fingerprint lookup failed", slog.Any("error", err))
		}
		return
	}

	if err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
		l.Warn("logout revocation failed", slog.Any("error", err))
		return
	}

	s.audit(ctx, rt.UserID, domain.AuditActionLogout, "explicit logout")
}

// issuePair signs sibling access/refresh tokens carrying the same identity
// and records the refresh fingerprint through st, which may be a transaction.
func (s *AuthService) issuePair(ctx context.Context, st store.Store, u domain.User, now time.Time) (*domain.TokenPair, error) {
	id := jwtx.Identity{
		UID:  u.ID,
		Name: u.DisplayName,
		Role: u.Role.String(),
	}

	accessToken, err := s.Codec.IssueAccess(id, now)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.IssueRefresh(id, now)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshToken),
		ExpiresAt: now.Add(s.Codec.RefreshTTL()),
		Revoked:   false,
	}
	if err := st.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity:     u.Identity(),
	}, nil
}

// audit appends an action log row. Best-effort: a write failure is logged
// and swallowed so it never fails the authentication operation.
func (s *AuthService) audit(ctx context.Context, userID int64, action, detail string) {
	entry := domain.AuditEntry{
		ID:     idx.New().String(),
		UserID: userID,
		Action: action,
		Detail: detail,
		At:     time.Now(),
	}
	if err := s.Store.Audit().AppendAuditEntry(ctx, entry); err != nil {
		slogx.FromContext(ctx).Warn("audit append failed",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
