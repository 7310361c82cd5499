// handlers/admin_routes.go
package handlers

import (
	"token-rewards-system/middleware"
	"token-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService, isAdmin middleware.AdminChecker) {
	admin := app.Group("/admin",
		middleware.UserContextMiddleware(),
		middleware.AdminOnlyMiddleware(isAdmin),
	)

	admin.Get("/stats", adminService.GetStats)

	admin.Post("/tasks", adminService.CreateTask)
	admin.Put("/tasks/:id", adminService.UpdateTask)
	admin.Patch("/tasks/:id", adminService.UpdateTask)
	admin.Delete("/tasks/:id", adminService.DeleteTask)

	admin.Post("/rewards", adminService.CreateReward)
	admin.Put("/rewards/:id", adminService.UpdateReward)
	admin.Patch("/rewards/:id", adminService.UpdateReward)
	admin.Delete("/rewards/:id", adminService.DeleteReward)

	admin.Post("/uploads/icons", adminService.UploadIcon)
}
