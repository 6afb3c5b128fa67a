package domain

import "time"

// TokenPair is what a successful login or refresh produces: the short-lived
// access token handed to the client body and the refresh token that only
// ever travels inside the httpOnly cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Identity     Identity
}

// RefreshToken models the stored fingerprint of an issued refresh token.
// Only the SHA-256 fingerprint is persisted; the signed token itself lives
// solely in the client's cookie. Rotation revokes the presented row and
// inserts the successor in one transaction, which is what makes a
// rotated-out predecessor unusable.
type RefreshToken struct {
	ID        string // ULID
	UserID    int64
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
