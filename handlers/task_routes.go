// handlers/task_routes.go
package handlers

import (
	"token-rewards-system/middleware"
	"token-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService) {
	// 🔐 All task routes need user context: the listing merges the caller's
	// completion state, and completing credits the caller's balance.
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/tasks", taskService.ListTasks)
	secured.Post("/tasks/:id/complete", taskService.CompleteTask)
}
