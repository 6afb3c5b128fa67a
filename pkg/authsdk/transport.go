package authsdk

import (
	"io"
	"net/http"
	"strings"
)

// AuthTransport is an http.RoundTripper that attaches the session's bearer
// token and, on a 401, performs one silent refresh and retries the request
// exactly once. Session endpoints pass through untouched so a refresh can
// never recurse into itself.
type AuthTransport struct {
	Client *Client

	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// sessionPaths are never intercepted.
var sessionPaths = []string{"/login", "/refresh", "/logout"}

func isSessionPath(path string) bool {
	for _, p := range sessionPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isSessionPath(req.URL.Path) {
		return t.base().RoundTrip(req)
	}

	first := req.Clone(req.Context())
	if token := t.Client.State().AccessToken(); token != "" {
		first.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A consumed body without GetBody cannot be replayed; surface the 401.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	token, refreshErr := t.Client.Refresh(req.Context())
	if refreshErr != nil {
		// The refresh outcome (terminal logout included) already happened in
		// Refresh; the caller gets the refresh error, not the stale 401.
		drainAndClose(resp)
		return nil, refreshErr
	}

	// A logout that raced the refresh wins: do not resurrect the request
	// with a token the user asked to discard.
	if !t.Client.State().Authenticated() {
		return resp, nil
	}

	drainAndClose(resp)

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+token)

	// One retry only. If this also 401s, the response goes to the caller.
	return t.base().RoundTrip(retry)
}

// drainAndClose releases the response body so the connection can be reused.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
