package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService validates the service JWTs the storefront backend presents
// when calling the ledger. End-user identity is resolved upstream; tokens
// here only authenticate the calling service.
type TokenService interface {
	// ValidateToken parses and verifies an HMAC-signed token.
	ValidateToken(tokenString string, secret string) (*jwt.Token, error)

	// GenerateServiceToken issues a short-lived token for a calling service.
	// Used by operational tooling and tests; production callers mint their own.
	GenerateServiceToken(caller string, ttl time.Duration) (string, error)
}
