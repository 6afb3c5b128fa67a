package auth_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLogoutEndToEnd(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	client, _ := loginRaw(t, baseURL)

	t.Run("logout clears the cookie and kills the session", func(t *testing.T) {
		resp, err := client.Post(baseURL+"/logout", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body authsdk.LogoutResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.True(t, body.Success)

		// The clearing Set-Cookie emptied the jar.
		require.Empty(t, jarCookie(t, client, baseURL))

		// And the session is dead server-side too.
		refreshResp, err := client.Post(baseURL+"/refresh", "application/json", nil)
		require.NoError(t, err)
		defer refreshResp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, refreshResp.StatusCode)
	})

	t.Run("logout without a session still succeeds", func(t *testing.T) {
		resp, err := http.Post(baseURL+"/logout", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body authsdk.LogoutResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.True(t, body.Success)
	})

	t.Run("repeated logout is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp, err := client.Post(baseURL+"/logout", "application/json", nil)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}
	})
}
