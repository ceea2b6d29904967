package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lentera-labs/campus-api/internal/utils"
)

// RequireRole admits only callers whose role claim matches one of the given
// roles. Matching is case-insensitive so token issuers and route tables may
// disagree on casing.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		claim, _ := c.Locals("user_role").(string)
		if _, ok := allowed[normalizeRole(claim)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
