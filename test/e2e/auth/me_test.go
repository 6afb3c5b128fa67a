package auth_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func getMe(t *testing.T, baseURL, bearer string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/me", nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestProtectedEndpoint(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	_, login := loginRaw(t, baseURL)

	t.Run("valid token returns the profile", func(t *testing.T) {
		resp := getMe(t, baseURL, login.AccessToken)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var me authsdk.MeResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
		require.Equal(t, login.ID, me.ID)
		require.Equal(t, adminUsername, me.Username)
		require.Equal(t, adminDisplayName, me.Name)
		require.Equal(t, "admin", me.Role)
	})

	t.Run("missing token names the reason", func(t *testing.T) {
		resp := getMe(t, baseURL, "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errBody authsdk.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		require.Equal(t, "unauthenticated", errBody.Error)
		require.Equal(t, "token not provided", errBody.ErrorDescription)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		resp := getMe(t, baseURL, "garbage")
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errBody authsdk.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		require.Equal(t, "unauthenticated", errBody.Error)
		require.Equal(t, "invalid or expired token", errBody.ErrorDescription)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(baseURL + path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		var health authsdk.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		resp.Body.Close()
		require.Equal(t, "ok", health.Status, path)
	}
}
