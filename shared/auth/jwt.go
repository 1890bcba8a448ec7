package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vasapolrittideah/account-api/shared/clock"
)

// ErrInvalidSessionToken is returned for tokens that are forged, malformed or
// expired. The cases are deliberately not distinguished.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims are the claims carried by a session access token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTAuthenticator issues and verifies stateless HS256 session tokens. It
// holds the signing secret for the whole process lifetime and never touches
// storage; revocation is checked by the caller.
type JWTAuthenticator struct {
	secret   string
	issuer   string
	audience string
	ttl      time.Duration
	clock    clock.Clock
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret, issuer, audience string, ttl time.Duration, clk clock.Clock) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		clock:    clk,
	}
}

// SessionTTL returns the configured session token lifetime.
func (a *JWTAuthenticator) SessionTTL() time.Duration {
	return a.ttl
}

// IssueSessionToken signs a token binding userID, valid for the configured
// session lifetime.
func (a *JWTAuthenticator) IssueSessionToken(userID string) (string, error) {
	now := a.clock.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// VerifySessionToken validates a session token and returns its claims. Any
// verification failure yields ErrInvalidSessionToken.
func (a *JWTAuthenticator) VerifySessionToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(a.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSessionToken
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrInvalidSessionToken
	}

	return claims, nil
}
