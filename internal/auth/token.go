package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lmoretti/taskvault-be/internal/apperr"
)

// Claims defines the JWT claims structure. The subject carries the user id
// as a decimal string so it round-trips through the codec as text.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies bearer tokens. The secret and TTL are
// injected at construction; the signing algorithm is pinned to HS256 and a
// token presented with any other algorithm fails verification.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec for the given symmetric secret and token
// lifetime.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL reports the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue creates a signed token for the given subject, expiring TTL from now.
func (c *TokenCodec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return signed, nil
}

// Parse verifies a token string and returns its claims. Failures carry
// distinct kinds: expired, malformed, and signature errors are told apart so
// clients and logs see which check failed.
func (c *TokenCodec) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperr.Wrap(apperr.KindTokenExpired, "Token has expired", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, apperr.Wrap(apperr.KindTokenSignature, "Token signature is invalid", err)
		default:
			return nil, apperr.Wrap(apperr.KindTokenMalformed, "Token is malformed", err)
		}
	}
	if !token.Valid {
		return nil, apperr.New(apperr.KindTokenMalformed, "Token is malformed")
	}
	return claims, nil
}
