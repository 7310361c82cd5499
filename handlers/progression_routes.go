// handlers/progression_routes.go
package handlers

import (
	"token-rewards-system/middleware"
	"token-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(
	app *fiber.App,
	profileService *services.ProfileService,
	streakService *services.StreakService,
	achievementService *services.AchievementService,
	authClient *services.AuthServiceClient,
) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/profile", profileService.GetProfile)
	secured.Get("/user/streaks", streakService.GetUserStreaks)
	secured.Get("/user/achievements", achievementService.GetUserAchievements)
	secured.Get("/user/transactions", profileService.GetUserTransactions)
	secured.Get("/user/wallets", profileService.GetUserWallets)

	// SSE takes query-param auth; EventSource cannot send headers.
	app.Get("/user/achievements/stream",
		middleware.SSEAuthMiddleware(authClient),
		achievementService.StreamUserAchievementsSSE,
	)
}
