// Package auth provides the authentication primitives: JWT issuance and
// validation, bcrypt password hashing, and the request middleware that
// resolves a bearer token into a verified user.
//
// Tokens are stateless: subject, issued-at, and expiry all live inside the
// signed payload, so validation needs only the server secret, with no
// store round trip and no session table.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "harulog"

// DefaultTokenTTL is the access-token lifetime used when the caller does
// not configure one.
const DefaultTokenTTL = 60 * time.Minute

// ErrInvalidToken is returned for every token rejection: bad signature,
// malformed payload, wrong algorithm, or expiry. Callers get one rejection
// kind; the distinction is logged, not exposed.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the decoded, verified content of an access token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService signs and verifies access tokens with a symmetric HMAC
// secret. The same secret is used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewTokenService creates a TokenService. The secret must be at least 16
// bytes; ttl <= 0 falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, logger *slog.Logger) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, logger: logger}, nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs an access token for the given subject (the user's
// internal ID) with the service's configured lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithDuration(subject, s.ttl)
}

// IssueWithDuration creates a token with an explicit lifetime. Tests use it
// to mint near-zero or already-expired tokens.
func (s *TokenService) IssueWithDuration(subject string, d time.Duration) (string, error) {
	now := time.Now()

	c := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Decode parses and verifies a token string and returns its claims.
//
// The checks, all performed before any claim is trusted:
//   - signature verifies under this service's secret
//   - signing algorithm is HS256 (anything else is an algorithm-confusion
//     attempt, including "none")
//   - issuer matches
//   - expiry is present and in the future
//
// Every failure collapses into ErrInvalidToken; the specific cause is
// logged at debug level only.
func (s *TokenService) Decode(tokenStr string) (Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if s.logger != nil {
			cause := "malformed"
			if errors.Is(err, jwt.ErrTokenExpired) {
				cause = "expired"
			} else if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
				cause = "bad signature"
			}
			s.logger.Debug("token rejected", slog.String("cause", cause))
		}
		return Claims{}, ErrInvalidToken
	}

	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{Subject: c.Subject}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		claims.ExpiresAt = c.ExpiresAt.Time
	}
	return claims, nil
}
