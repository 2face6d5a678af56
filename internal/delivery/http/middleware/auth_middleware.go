package middleware

import (
	"net/http"
	"strings"

	"bloom/config"
	"bloom/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// callerContextKey is where Authenticate stores the verified caller name.
const callerContextKey = "caller"

// AuthMiddleware authenticates calling services. The ledger is an internal
// API: callers are storefront services presenting a shared-secret JWT, not
// end users.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	cfg      *config.Config
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, cfg: cfg}
}

// Authenticate validates the Bearer service token and records the caller on
// the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		token, err := m.tokenSvc.ValidateToken(tokenString, m.cfg.SecretKey.Service)
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Failed to parse token claims"})
		}

		if tokenType, _ := claims["type"].(string); tokenType != "service" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Token is not a service token"})
		}

		caller, ok := claims["sub"].(string)
		if !ok || caller == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Caller missing from token"})
		}

		c.Set(callerContextKey, caller)

		return next(c)
	}
}

// GetCaller returns the authenticated service name set by Authenticate.
func GetCaller(c echo.Context) (string, bool) {
	caller, ok := c.Get(callerContextKey).(string)

	return caller, ok && caller != ""
}
