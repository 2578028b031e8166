package middleware

import (
	"strings"

	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/config"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/jwt"
	"ictclub-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// Cookie first, then Authorization header
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

		c.Locals("userID", claims.UserID)
		c.Locals("regNumber", claims.RegNumber)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// AdminOnly allows only admins through. The role is re-read from the store
// on every call rather than trusted from the token, so a demotion takes
// effect on the demoted admin's very next request.
func AdminOnly(userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		role, err := userRepo.GetRole(c.Context(), userID)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		if role != domain.RoleAdmin {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		c.Locals("role", string(role))
		return c.Next()
	}
}

// UserID returns the authenticated user's id from the request context
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// IsAdmin reports whether the request carries the admin role local
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == string(domain.RoleAdmin)
}
