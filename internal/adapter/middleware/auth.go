package middleware

import (
	"net/http"
	"strings"

	domainUser "loanorigin/internal/domain/user"
	"loanorigin/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

const claimsKey = "auth.claims"

// TokenVerifier parses a bearer token into claims. Satisfied by auth.Usecase.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			SetClaims(c, claims)
			return next(c)
		}
	}
}

// RequireRole gates a route group to the given roles. Must run after Auth.
func RequireRole(roles ...domainUser.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
		}
	}
}

// SetClaims attaches claims to the request context the way Auth does.
func SetClaims(c echo.Context, claims *auth.Claims) { c.Set(claimsKey, claims) }

// ClaimsFrom returns the authenticated claims, or nil outside Auth.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}
