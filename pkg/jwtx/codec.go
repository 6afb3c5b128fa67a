package jwtx

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	// ErrBadSecrets is a configuration error: both signing secrets must be
	// present and distinct before the service is allowed to start.
	ErrBadSecrets = errors.New("jwtx: signing secrets missing or not distinct")
)

// MinSecretLength is the minimum accepted secret size in bytes. Anything
// shorter than the HMAC-SHA256 block makes brute force too cheap.
const MinSecretLength = 32

// CodecConfig configures a Codec. Secrets are required; TTLs fall back to
// the package defaults when zero.
type CodecConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration
}

// Codec signs and verifies the two token kinds against two distinct HS256
// secrets. Using separate secrets (rather than a shared secret plus a type
// claim) means a refresh token can never pass access verification and vice
// versa - the signature simply does not check out.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	leeway        time.Duration
}

// NewCodec validates the configuration and returns a ready Codec. A missing,
// short, or shared secret is a fatal configuration error: callers are
// expected to abort startup rather than degrade.
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if len(cfg.AccessSecret) < MinSecretLength || len(cfg.RefreshSecret) < MinSecretLength {
		return nil, ErrBadSecrets
	}
	if subtle.ConstantTimeCompare(cfg.AccessSecret, cfg.RefreshSecret) == 1 {
		return nil, ErrBadSecrets
	}

	c := &Codec{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		leeway:        cfg.Leeway,
	}
	if c.accessTTL <= 0 {
		c.accessTTL = DefaultAccessTokenTTL
	}
	if c.refreshTTL <= 0 {
		c.refreshTTL = DefaultRefreshTokenTTL
	}
	return c, nil
}

// AccessTTL reports the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a short-lived access token for the identity.
func (c *Codec) IssueAccess(id Identity, now time.Time) (string, error) {
	return c.sign(id, c.accessTTL, c.accessSecret, now)
}

// IssueRefresh signs a long-lived refresh token for the identity.
func (c *Codec) IssueRefresh(id Identity, now time.Time) (string, error) {
	return c.sign(id, c.refreshTTL, c.refreshSecret, now)
}

// VerifyAccess checks signature and expiry against the access secret.
func (c *Codec) VerifyAccess(token string) (Claims, error) {
	return c.verify(token, c.accessSecret)
}

// VerifyRefresh checks signature and expiry against the refresh secret.
func (c *Codec) VerifyRefresh(token string) (Claims, error) {
	return c.verify(token, c.refreshSecret)
}

func (c *Codec) sign(id Identity, ttl time.Duration, secret []byte, now time.Time) (string, error) {
	claims := NewIdentityClaims(id, ttl, c.issuer, now)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (c *Codec) verify(token string, secret []byte) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidSig
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(c.leeway),
	)
	if err != nil {
		return Claims{}, normalizeError(err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// normalizeError maps library errors onto the jwtx sentinels so callers
// never see raw cryptographic errors across the package boundary.
func normalizeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrInvalidClaim
	}
}
