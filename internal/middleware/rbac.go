package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/stc-api/internal/utils"
)

// RequireRole admits callers whose token role is one of roles, compared without case.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
			allowed[role] = true
		}
	}

	return func(c *fiber.Ctx) error {
		if !allowed[normalizeRole(c.Locals(LocalUserRole))] {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
