// Package token encodes and decodes the self-issued session token. The
// token is a JWT with the "none" signing method: it exists for expiry
// bookkeeping on the client side and is not a trust boundary. Nothing here
// verifies a signature.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/electrostore/storefront/entities"
)

const defaultLifetime = 24 * time.Hour

// Claims is the structured token payload.
type Claims struct {
	jwt.RegisteredClaims

	Email string        `json:"email"`
	Name  string        `json:"name"`
	Role  entities.Role `json:"role"`
}

type Manager struct {
	lifetime time.Duration
	now      func() time.Time
}

type Option func(*Manager)

func WithLifetime(d time.Duration) Option {
	return func(m *Manager) {
		m.lifetime = d
	}
}

// WithClock overrides the time source, used by tests to issue expired tokens.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func New(opts ...Option) *Manager {
	ans := Manager{
		lifetime: defaultLifetime,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&ans)
	}

	return &ans
}

// Issue stamps issued-at with the current time and expiry one lifetime
// later, so expiry is always after issued-at.
func (m *Manager) Issue(userID, email, name string, role entities.Role) (string, error) {
	now := m.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
		Email: email,
		Name:  name,
		Role:  role,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodNone, claims)

	return t.SignedString(jwt.UnsafeAllowNoneSignatureType)
}

// Decode parses the payload without verification. It returns nil on any
// malformed input and never panics.
func (m *Manager) Decode(raw string) *Claims {
	var claims Claims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil
	}

	return &claims
}

// IsExpired reports whether the token's expiry has passed. Malformed
// tokens and tokens without an expiry count as expired.
func (m *Manager) IsExpired(raw string) bool {
	claims := m.Decode(raw)
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}

	return !m.now().Before(claims.ExpiresAt.Time)
}

// TimeRemaining returns how long the token stays valid, zero when expired
// or malformed.
func (m *Manager) TimeRemaining(raw string) time.Duration {
	claims := m.Decode(raw)
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}

	remaining := claims.ExpiresAt.Time.Sub(m.now())
	if remaining < 0 {
		return 0
	}

	return remaining
}
