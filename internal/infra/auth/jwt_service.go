// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bloom/config"
	"bloom/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	serviceSecret string // Secret key shared with the storefront backend.
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Service == "" {
		return nil, errors.New("service token secret must be provided")
	}

	return &jwtService{
		serviceSecret: cfg.SecretKey.Service,
	}, nil
}

// ValidateToken checks the validity of a token string against a secret.
func (s *jwtService) ValidateToken(tokenString string, secret string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
}

// GenerateServiceToken issues a short-lived HMAC token for a calling service.
// Used by operational tooling and tests; production callers mint their own.
func (s *jwtService) GenerateServiceToken(caller string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  caller,                     // Subject (which service the token is for)
		"iat":  time.Now().Unix(),          // Issued At
		"exp":  time.Now().Add(ttl).Unix(), // Expiration Time
		"type": "service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.serviceSecret))
}
