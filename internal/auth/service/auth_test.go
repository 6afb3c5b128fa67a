package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pointdesk/pointdesk/internal/auth/domain"
	"github.com/pointdesk/pointdesk/internal/auth/store/drivers/sqlite"
	"github.com/pointdesk/pointdesk/pkg/cryptox"
	"github.com/pointdesk/pointdesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pointdesk-auth-test")
	if err != nil {
		panic(err)
	}

	// The pepper is process-global; set it once before any parallel test
	// hashes a password.
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	cryptox.GetPepper()

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		AccessSecret:  []byte("test-access-secret-0123456789abcdef"),
		RefreshSecret: []byte("test-refresh-secret-0123456789abcde"),
		Issuer:        "pointdesk-auth-test",
	})
	require.NoError(t, err)

	return &AuthService{Store: st, Codec: codec}
}

func createTestUser(t *testing.T, s *AuthService, username, password string, role domain.Role) int64 {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id, err := s.Store.Users().CreateUser(context.Background(), domain.User{
		Username:     username,
		DisplayName:  "Test " + username,
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)
	return id
}

func TestLogin(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)
	uid := createTestUser(t, s, "alice", "correct horse", domain.RoleSupport)
	ctx := context.Background()

	t.Run("valid credentials issue a verifiable pair", func(t *testing.T) {
		pair, err := s.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, uid, pair.Identity.ID)
		require.Equal(t, domain.RoleSupport, pair.Identity.Role)

		claims, err := s.Codec.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, uid, claims.UID)
		require.Equal(t, "support", claims.Role)

		_, err = s.Codec.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := s.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, err := s.Login(ctx, "nobody", "correct horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshRotation(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)
	createTestUser(t, s, "bob", "hunter2hunter2", domain.RoleViewer)
	ctx := context.Background()

	pair, err := s.Login(ctx, "bob", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("refresh issues a new pair", func(t *testing.T) {
		next, err := s.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, next.AccessToken)
		require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

		t.Run("the rotated-out predecessor is dead", func(t *testing.T) {
			_, err := s.Refresh(ctx, pair.RefreshToken)
			require.ErrorIs(t, err, ErrSessionExpired)
		})

		t.Run("the successor still works", func(t *testing.T) {
			_, err := s.Refresh(ctx, next.RefreshToken)
			require.NoError(t, err)
		})
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := s.Refresh(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		p, err := s.Login(ctx, "bob", "hunter2hunter2")
		require.NoError(t, err)
		_, err = s.Refresh(ctx, p.AccessToken)
		require.ErrorIs(t, err, ErrSessionExpired)
	})
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)
	uid := createTestUser(t, s, "carol", "pass-word-123", domain.RoleViewer)
	ctx := context.Background()

	pair, err := s.Login(ctx, "carol", "pass-word-123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleViewer, pair.Identity.Role)

	require.NoError(t, s.Store.Users().UpdateUserRole(ctx, uid, domain.RoleAdmin))

	next, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, next.Identity.Role)

	claims, err := s.Codec.VerifyAccess(next.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)
	createTestUser(t, s, "dave", "s3cret-s3cret", domain.RoleAdmin)
	ctx := context.Background()

	pair, err := s.Login(ctx, "dave", "s3cret-s3cret")
	require.NoError(t, err)

	t.Run("logout kills the session", func(t *testing.T) {
		s.Logout(ctx, pair.RefreshToken)
		_, err := s.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		s.Logout(ctx, pair.RefreshToken)
		s.Logout(ctx, "")
		s.Logout(ctx, "garbled")
	})
}

func TestRefreshExpiredFingerprint(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)
	createTestUser(t, s, "erin", "long-enough-pw", domain.RoleViewer)
	ctx := context.Background()

	pair, err := s.Login(ctx, "erin", "long-enough-pw")
	require.NoError(t, err)

	// Age the stored fingerprint past its expiry, then clean it out the way
	// the housekeeping worker would.
	fp := cryptox.FingerprintToken(pair.RefreshToken)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	require.NoError(t, err)
	require.True(t, rt.ExpiresAt.After(time.Now()))

	require.NoError(t, s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp))
	require.NoError(t, s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

	_, err = s.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestEnsureSeedUser(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)
	ctx := context.Background()
	logger := testLogger()

	seed := SeedUser{Username: "admin", Password: "initial-admin-pw", DisplayName: "Administrator"}

	require.NoError(t, EnsureSeedUser(ctx, s, logger, seed))

	u, err := s.Store.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)

	t.Run("no-op on a populated database", func(t *testing.T) {
		require.NoError(t, EnsureSeedUser(ctx, s, logger, SeedUser{Username: "other", Password: "pw"}))
		_, err := s.Store.Users().GetUserByUsername(ctx, "other")
		require.Error(t, err)
	})

	t.Run("no-op without configured credentials", func(t *testing.T) {
		require.NoError(t, EnsureSeedUser(ctx, s, logger, SeedUser{}))
	})
}
