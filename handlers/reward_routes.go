// handlers/reward_routes.go
package handlers

import (
	"token-rewards-system/middleware"
	"token-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, rewardService *services.RewardService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/rewards", rewardService.ListRewards)
	secured.Post("/rewards/:id/purchase", rewardService.PurchaseReward)
}
