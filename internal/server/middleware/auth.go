package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tk-online/catalog-api/internal/models"
	"github.com/tk-online/catalog-api/internal/usecase"
)

const authUserKey = "auth_user"

// JWTAuth gates the dashboard and media routes. The token comes from the
// Authorization header as a bearer token.
func JWTAuth(authUsecase *usecase.AuthUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			ctx := c.Request().Context()
			user, err := authUsecase.ValidateToken(ctx, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(authUserKey, user)
			return next(c)
		}
	}
}

// GetAuthUser returns the identity set by JWTAuth, or nil on public routes.
func GetAuthUser(c echo.Context) *models.AuthUser {
	user, ok := c.Get(authUserKey).(*models.AuthUser)
	if !ok {
		return nil
	}
	return user
}

// GetUserID is the log-friendly form of the authed identity.
func GetUserID(c echo.Context) string {
	if user := GetAuthUser(c); user != nil {
		return user.Email
	}
	return ""
}
