package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"northwind-service/pkg/jwtutil"
	"northwind-service/pkg/logger"
	"northwind-service/prometheus"
)

// AuthMiddleware validates the JWT bearer token and stores the caller's
// identity and roles in the request context. A missing or invalid credential
// is 401; role checks happen separately in RequireRole.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError("malformed_header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("roles", claims.Roles)

		return next(c)
	}
}

// RequireRole guards a route group behind a role claim. It must run after
// AuthMiddleware. An authenticated caller without the role gets 403 before
// any lookup, so the response never reveals whether the target exists.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			roles, ok := c.Get("roles").([]string)
			if !ok {
				log.Warn("No roles in request context")
				prometheus.RecordAuthError("missing_roles")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}

			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}

			log.Warn("Caller lacks required role",
				zap.String("required_role", role),
				zap.Strings("roles", roles))
			prometheus.RecordAuthError("missing_role")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}

// RolesFromContext retrieves the caller's roles from the context.
func RolesFromContext(c echo.Context) ([]string, bool) {
	roles, ok := c.Get("roles").([]string)
	return roles, ok
}
