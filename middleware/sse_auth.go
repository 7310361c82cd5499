// token-rewards-system/middleware/sse_auth.go
package middleware

import (
	"log"
	"strings"

	"token-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

// SSEAuthMiddleware validates a `token` query param via the auth service.
// EventSource cannot set headers, so SSE routes authenticate this way
// instead of relying on the gateway's forwarded identity headers.
//
// Usage:
//
//	app.Get("/user/achievements/stream", middleware.SSEAuthMiddleware(authClient), achievementService.StreamUserAchievementsSSE)
func SSEAuthMiddleware(authClient *services.AuthServiceClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(c.Query("token"))
		if accessToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing token in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals("user_id", resp.UserID)
		c.Locals("user_email", resp.Email)
		c.Locals("user_roles", resp.Roles)

		return c.Next()
	}
}
