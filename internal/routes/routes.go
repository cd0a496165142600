package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/voluntia/volunteerhub-api/internal/handlers"
	"github.com/voluntia/volunteerhub-api/internal/middleware"
	"github.com/voluntia/volunteerhub-api/internal/ws"
)

func Setup(app *fiber.App, hub *ws.Hub) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", middleware.Protected())

	// Postulations
	postulations := api.Group("/postulations")
	postulations.Post("/", handlers.CreatePostulation)
	postulations.Get("/", handlers.GetPostulations)
	postulations.Get("/user/:userId", handlers.GetPostulationsByUser)
	postulations.Get("/project/:projectId", handlers.GetPostulationsByProject)
	postulations.Put("/status", handlers.UpdatePostulationStatus)
	postulations.Delete("/:id", handlers.DeletePostulation)

	// Tasks. Static segments before :id so "assigned" and the project/user
	// listings don't get captured as task IDs.
	tasks := api.Group("/tasks")
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/", handlers.GetTasks)
	tasks.Get("/assigned", handlers.GetAssignedTasks)
	tasks.Get("/project/:projectId", handlers.GetTasksByProject)
	tasks.Get("/user/:userId/project/:projectId", handlers.GetTasksByUserAndProject)
	tasks.Get("/:id", handlers.GetTask)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)
	tasks.Get("/:id/history", handlers.GetTaskHistory)
	tasks.Post("/:id/comments", handlers.AddTaskComment)
	tasks.Post("/:id/time", handlers.LogTaskTime)
	tasks.Put("/:taskId/time/:entryId/approve", handlers.ApproveTimeEntry)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Delete("/:id", handlers.DeleteNotification)

	// Device token for push notifications
	api.Post("/device-token", handlers.RegisterDeviceToken)

	// Volunteer profiles
	volunteers := api.Group("/volunteers")
	volunteers.Get("/", handlers.GetAllProfiles)
	volunteers.Get("/me", handlers.GetMyProfile)
	volunteers.Get("/:userId", handlers.GetProfile)
	volunteers.Post("/:userId", handlers.CreateProfile)
	volunteers.Put("/:userId", handlers.UpdateProfile)
	volunteers.Put("/:userId/skills", handlers.UpdateSkills)
	volunteers.Put("/:userId/image", handlers.UpdateProfileImage)
	volunteers.Post("/:userId/projects/:projectId", handlers.AddProjectToHistory)
	volunteers.Put("/:userId/projects/:projectId/complete", handlers.CompleteProject)
	volunteers.Put("/:userId/metrics", handlers.UpdateMetrics)
	volunteers.Post("/:userId/badges", handlers.AddBadge)
	volunteers.Put("/:userId/status", handlers.UpdateVolunteerStatus)
	volunteers.Get("/:userId/tracking", handlers.GetVolunteerTracking)

	// Project registry mirror (read-only)
	projects := api.Group("/projects")
	projects.Get("/", handlers.GetProjects)
	projects.Get("/:id", handlers.GetProject)

	// WebSocket for live notification streams
	app.Use("/ws", ws.Upgrade())
	app.Get("/ws/notifications", websocket.New(hub.Handle))
}
