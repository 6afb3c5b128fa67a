package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// loginRaw logs in with a jar-backed client and returns the client plus the
// login response. The jar holds the refresh cookie afterwards.
func loginRaw(t *testing.T, baseURL string) (*http.Client, authsdk.LoginResponse) {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, err := client.Post(baseURL+"/login", "application/json",
		jsonBody(t, authsdk.LoginRequest{Username: adminUsername, Password: adminPassword}))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body authsdk.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return client, body
}

func TestRefreshEndToEnd(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	client, login := loginRaw(t, baseURL)

	t.Run("refresh rotates the cookie and the access token", func(t *testing.T) {
		oldCookie := jarCookie(t, client, baseURL)
		require.NotEmpty(t, oldCookie)

		resp, err := client.Post(baseURL+"/refresh", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body authsdk.RefreshResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotEmpty(t, body.AccessToken)
		require.NotEqual(t, login.AccessToken, body.AccessToken)
		require.Equal(t, login.ID, body.User.ID)
		require.Equal(t, "admin", body.User.Role)

		newCookie := jarCookie(t, client, baseURL)
		require.NotEmpty(t, newCookie)
		require.NotEqual(t, oldCookie, newCookie, "refresh must rotate the cookie")

		t.Run("rotated-out predecessor is rejected with 403", func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, baseURL+"/refresh", nil)
			require.NoError(t, err)
			req.AddCookie(&http.Cookie{Name: "refreshToken", Value: oldCookie})

			// Bare client: the jar would override the stale cookie.
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusForbidden, resp.StatusCode)

			var errBody authsdk.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
			require.Equal(t, "session_expired", errBody.Error)
		})

		t.Run("successor still refreshes", func(t *testing.T) {
			resp, err := client.Post(baseURL+"/refresh", "application/json", nil)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
		})
	})
}

func TestRefreshWithoutCookie(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	resp, err := http.Post(baseURL+"/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var errBody authsdk.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	require.Equal(t, "no_session", errBody.Error)

	// A failed refresh must not touch cookie state.
	require.Empty(t, resp.Header.Values("Set-Cookie"))
}

func TestRefreshWithGarbageCookie(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	req, err := http.NewRequest(http.MethodPost, baseURL+"/refresh", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "not-a-jwt"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Empty(t, resp.Header.Values("Set-Cookie"))
}

// jarCookie returns the refreshToken value the jar currently holds for the
// server.
func jarCookie(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()

	u, err := url.Parse(baseURL)
	require.NoError(t, err)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "refreshToken" {
			return c.Value
		}
	}
	return ""
}
