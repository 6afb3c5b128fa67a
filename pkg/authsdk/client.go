package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Client is the dashboard-side client for the PointDesk auth service. It owns
// the session state, keeps the refresh cookie in its jar, and collapses
// concurrent silent refreshes into a single wire call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// OnSessionExpired fires once when a refresh fails and a live session is
	// forced out. The dashboard uses it to route to the login screen.
	// Optional.
	OnSessionExpired func()

	state *SessionState

	// logoutGen increments on every logout. A refresh that started before a
	// logout observes the bump and discards its result instead of
	// resurrecting the session.
	logoutGen atomic.Uint64

	refreshMu sync.Mutex
	inflight  *refreshCall
}

// refreshCall is a memoized in-flight refresh. Every caller that arrives
// while it runs blocks on done and then shares its outcome.
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

// NewClient creates a client with a fresh cookie jar, so refresh cookies
// persist across requests the way a browser would keep them.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
		state: &SessionState{},
	}, nil
}

// State exposes the session container for observers (UI bindings, the route
// guard, the transport).
func (c *Client) State() *SessionState { return c.state }

// APIClient returns an http.Client whose transport attaches the bearer token
// and transparently retries once after a silent refresh. Use it for all
// dashboard API calls.
func (c *Client) APIClient() *http.Client {
	return &http.Client{
		Jar:       c.HTTPClient.Jar,
		Timeout:   c.HTTPClient.Timeout,
		Transport: &AuthTransport{Client: c},
	}
}

// Login authenticates with credentials. On success the access token and
// identity land in the session state and the refresh cookie lands in the jar.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, "/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := decodeJSON(resp, &loginResp, http.StatusOK); err != nil {
		return nil, err
	}

	c.state.Set(loginResp.AccessToken, UserPayload{
		ID:   loginResp.ID,
		Name: loginResp.Name,
		Role: loginResp.Role,
	})
	return &loginResp, nil
}

// Refresh performs a silent refresh, collapsing concurrent callers into one
// wire call. Every caller observes the same outcome: the fresh access token
// or the shared error.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	if call := c.inflight; call != nil {
		c.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.refreshMu.Unlock()

	token, err := c.doRefresh(ctx)

	c.refreshMu.Lock()
	c.inflight = nil
	c.refreshMu.Unlock()

	call.token, call.err = token, err
	close(call.done)

	return token, err
}

// doRefresh is the actual wire call. The cookie jar supplies the refresh
// token; no body is sent. Any failure forces a live session out: a refresh
// that cannot complete, timeouts included, leaves no safe way to keep the
// caller signed in.
func (c *Client) doRefresh(ctx context.Context) (string, error) {
	gen := c.logoutGen.Load()

	resp, err := c.post(ctx, "/refresh", nil)
	if err != nil {
		c.forceLogout(ctx)
		return "", err
	}

	var refreshResp RefreshResponse
	if err := decodeJSON(resp, &refreshResp, http.StatusOK); err != nil {
		c.forceLogout(ctx)
		return "", err
	}

	// A logout landed while this refresh was in flight. The user's intent
	// wins; the fresh pair is dropped on the floor.
	if c.logoutGen.Load() != gen {
		return "", ErrNoSession
	}

	c.state.Set(refreshResp.AccessToken, refreshResp.User)
	return refreshResp.AccessToken, nil
}

// Logout ends the session. Local state is cleared unconditionally, even if
// the server is unreachable; the worst case is an orphaned fingerprint row
// that housekeeping eventually removes.
func (c *Client) Logout(ctx context.Context) error {
	c.logoutGen.Add(1)
	c.state.Clear()

	resp, err := c.post(ctx, "/logout", nil)
	if err != nil {
		return err
	}

	var logoutResp LogoutResponse
	return decodeJSON(resp, &logoutResp, http.StatusOK)
}

// Me fetches the caller's profile through the authenticated transport.
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/v1/me"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.APIClient().Do(req)
	if err != nil {
		return nil, err
	}

	var meResp MeResponse
	if err := decodeJSON(resp, &meResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &meResp, nil
}

// ChangePassword changes the caller's password. The server revokes every
// refresh token as a side effect, so local session state is cleared and the
// caller must log in again with the new credentials.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body, err := json.Marshal(ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url("/v1/password"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.APIClient().Do(req)
	if err != nil {
		return err
	}

	var pwResp ChangePasswordResponse
	if err := decodeJSON(resp, &pwResp, http.StatusOK); err != nil {
		return err
	}

	c.logoutGen.Add(1)
	c.state.Clear()
	return nil
}

// forceLogout ends the session after a failed refresh: local state is
// cleared, the server is asked to drop the refresh cookie, and the expiry
// hook fires. No-op when no session was live, so a failed cold-start
// refresh stays quiet.
func (c *Client) forceLogout(ctx context.Context) {
	if !c.state.Authenticated() {
		return
	}
	c.logoutGen.Add(1)
	c.state.Clear()

	// Best-effort cookie clear; the server may be the thing that just failed.
	if resp, err := c.post(ctx, "/logout", nil); err == nil {
		_ = resp.Body.Close()
	}

	if c.OnSessionExpired != nil {
		c.OnSessionExpired()
	}
}

// isTerminalSessionError reports whether err means the session is gone for
// good and retrying the refresh is pointless.
func isTerminalSessionError(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNoSession)
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON decodes a JSON response into the target, turning non-expected
// statuses into typed *APIError values.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
