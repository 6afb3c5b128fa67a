package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func refreshCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

func TestLoginEndToEnd(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	t.Run("success returns identity and sets httpOnly cookie", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/login", authsdk.LoginRequest{
			Username: adminUsername,
			Password: adminPassword,
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body authsdk.LoginResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotEmpty(t, body.AccessToken)
		require.Equal(t, adminDisplayName, body.Name)
		require.Equal(t, "admin", body.Role)

		cookie := refreshCookie(t, resp)
		require.NotNil(t, cookie, "login must set the refresh cookie")
		require.True(t, cookie.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		require.Equal(t, "/", cookie.Path)
		require.Greater(t, cookie.MaxAge, 0)

		// The refresh token must never leak into the response body.
		require.NotContains(t, body.AccessToken, cookie.Value)
	})

	t.Run("wrong password is a generic 401", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/login", authsdk.LoginRequest{
			Username: adminUsername,
			Password: "wrong",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errBody authsdk.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		require.Equal(t, "invalid_credentials", errBody.Error)
		require.Nil(t, refreshCookie(t, resp))
	})

	t.Run("unknown user gets the identical error", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/login", authsdk.LoginRequest{
			Username: "no-such-user",
			Password: adminPassword,
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var errBody authsdk.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		require.Equal(t, "invalid_credentials", errBody.Error)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/login", authsdk.LoginRequest{Username: adminUsername})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()
	baseURL := startServer(t)

	// The strict profile allows 5 attempts; the 6th trips the limiter.
	var last int
	for i := 0; i < 6; i++ {
		resp := postJSON(t, baseURL+"/login", authsdk.LoginRequest{
			Username: adminUsername,
			Password: "wrong",
		})
		last = resp.StatusCode
		resp.Body.Close()
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}
