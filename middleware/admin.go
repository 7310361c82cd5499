// middleware/admin.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminChecker decides whether an identity may use the admin surface. It is
// injected rather than hardcoded so a policy store can replace the default
// email allow-list without touching the routes.
type AdminChecker func(userID, email string) bool

// EmailAllowListChecker builds the default checker from a comma-separated
// list of admin emails (typically the ADMIN_EMAILS env value). Matching is
// case-insensitive.
func EmailAllowListChecker(raw string) AdminChecker {
	allowed := make(map[string]struct{})
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}
	return func(_, email string) bool {
		_, ok := allowed[strings.ToLower(email)]
		return ok
	}
}

// AdminOnlyMiddleware gates a route group behind the injected checker.
// Must run after UserContextMiddleware.
func AdminOnlyMiddleware(isAdmin AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		email, _ := c.Locals("user_email").(string)

		if userID == "" || !isAdmin(userID, email) {
			log.Printf("🚫 [ADMIN] Denied admin access for %s (%s) on %s", userID, email, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin privileges required",
			})
		}
		return c.Next()
	}
}
