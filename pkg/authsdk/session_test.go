package authsdk

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionState(t *testing.T) {
	t.Parallel()

	var s SessionState

	t.Run("starts logged out", func(t *testing.T) {
		require.False(t, s.Authenticated())
		require.Empty(t, s.AccessToken())
		_, ok := s.Identity()
		require.False(t, ok)
	})

	t.Run("set installs token and identity together", func(t *testing.T) {
		s.Set("tok-1", UserPayload{ID: 7, Name: "Avery", Role: "support"})
		require.True(t, s.Authenticated())
		require.Equal(t, "tok-1", s.AccessToken())

		id, ok := s.Identity()
		require.True(t, ok)
		require.Equal(t, int64(7), id.ID)
		require.Equal(t, "support", id.Role)
	})

	t.Run("clear wipes both", func(t *testing.T) {
		s.Clear()
		require.False(t, s.Authenticated())
		_, ok := s.Identity()
		require.False(t, ok)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		s.Clear()
		s.Clear()
		require.False(t, s.Authenticated())
	})
}

func TestSessionStateConcurrentAccess(t *testing.T) {
	t.Parallel()

	var s SessionState
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set("tok", UserPayload{ID: 1, Name: "x", Role: "viewer"})
		}()
		go func() {
			defer wg.Done()
			if s.Authenticated() {
				_ = s.AccessToken()
				_, _ = s.Identity()
			}
		}()
	}
	wg.Wait()
}

func TestAPIErrorIs(t *testing.T) {
	t.Parallel()

	wire := &APIError{StatusCode: 403, Code: ErrorCodeSessionExpired, Description: "different wording"}
	require.ErrorIs(t, wire, ErrSessionExpired)
	require.NotErrorIs(t, wire, ErrNoSession)
}
