package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// UserContextKey is where the verified claims are stored on echo.Context.
const UserContextKey = "user"

func parseBearer(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseClaims(tokenString, secret string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}
			tokenString, ok := parseBearer(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			claims, err := parseClaims(tokenString, secret)
			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

// OptionalJWTMiddleware sets claims when a valid token is present and lets
// anonymous requests through. A malformed or invalid token is still rejected.
func OptionalJWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			tokenString, ok := parseBearer(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			claims, err := parseClaims(tokenString, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's ID, or 0 for anonymous requests.
func UserID(c echo.Context) uint {
	claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
