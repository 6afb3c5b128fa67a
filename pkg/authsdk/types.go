package authsdk

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login. The refresh token is not
// in the body; it travels only in the httpOnly cookie.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

// UserPayload is the identity block embedded in refresh and profile responses.
type UserPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// RefreshResponse is returned on a successful silent refresh. The rotated
// refresh token is delivered via Set-Cookie alongside this body.
type RefreshResponse struct {
	AccessToken string      `json:"accessToken"`
	User        UserPayload `json:"user"`
}

// LogoutResponse acknowledges a logout. Always success; logout cannot fail.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// ChangePasswordRequest is the JSON body for PUT /v1/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePasswordResponse acknowledges a password change. Every session is
// revoked as a side effect; clients should expect their next refresh to fail.
type ChangePasswordResponse struct {
	Success bool `json:"success"`
}

// MeResponse is the profile returned by GET /v1/me.
type MeResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// ErrorResponse is the JSON error envelope every endpoint uses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthChecks reports per-dependency health in readiness responses.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
