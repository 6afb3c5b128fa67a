package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pointdesk/pointdesk/pkg/httpx"
)

// Error codes shared by the server handlers and the SDK client. The client
// matches on the code, never the description, so descriptions are free to
// change.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthenticated    = "unauthenticated"
	ErrorCodeNoSession          = "no_session"
	ErrorCodeSessionExpired     = "session_expired"
	ErrorCodeServerError        = "server_error"
)

// APIError is the wire error shape used by every endpoint. It implements the
// error interface and is used both by the server (to write HTTP responses)
// and by the SDK client (to represent errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "session_expired")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on the error code, so errors.Is(err, authsdk.ErrSessionExpired)
// works on errors parsed off the wire.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter or is otherwise malformed.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is returned on login failure. The same error
	// covers unknown usernames and wrong passwords so the response does not
	// reveal which accounts exist.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	// ErrUnauthenticated is returned by protected endpoints when the access
	// token is missing, invalid, or expired. The client treats it as a
	// trigger for a silent refresh.
	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "invalid or expired token",
	}

	// ErrNoSession is returned by the refresh endpoint when no refresh
	// cookie accompanied the request. Recoverable by logging in.
	ErrNoSession = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeNoSession,
		Description: "no session cookie present",
	}

	// ErrSessionExpired is returned by the refresh endpoint when the cookie
	// carried a token that is expired, revoked, or rotated out. Terminal:
	// retrying the same refresh can never succeed.
	ErrSessionExpired = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeSessionExpired,
		Description: "session expired, please log in again",
	}

	// ErrServerError is returned when the server encountered an unexpected
	// condition that prevented it from fulfilling the request.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx HTTP response into a typed *APIError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
