package middleware

import (
	"strings"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/config"
	"sahaayak-api/internal/pkg/jwt"
	"sahaayak-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates officer authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// Cookie first, Authorization header as fallback
		accessToken = c.Cookies("access_token")
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("officerID", claims.OfficerID)
		c.Locals("employeeID", claims.EmployeeID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(models.RoleAdmin)
}

// SupervisorOrAdmin middleware allows supervisor or admin roles
func SupervisorOrAdmin() fiber.Handler {
	return RoleMiddleware(models.RoleSupervisor, models.RoleAdmin)
}
