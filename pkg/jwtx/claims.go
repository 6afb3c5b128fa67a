package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the dual-token session flow.
// These provide sensible security defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Identity is the claim payload both token kinds carry. An access token and
// its sibling refresh token minted at the same time hold identical values.
type Identity struct {
	// UID is the numeric user id (the "sub" claim mirrors it as a string).
	UID int64 `json:"uid"`

	// Name is the display name shown in the dashboard header.
	Name string `json:"name,omitempty"`

	// Role is the user's role name ("admin", "support", "viewer").
	Role string `json:"role,omitempty"`
}

// Claims are the JWT claims used for both access and refresh tokens. The
// two kinds are told apart by signing secret, not by a type flag.
type Claims struct {
	jwt.RegisteredClaims

	Identity
}

// NewIdentityClaims builds minimally-correct claims for a token of the
// given lifetime.
func NewIdentityClaims(id Identity, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(id.UID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Identity: id,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}
