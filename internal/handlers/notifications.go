package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voluntia/volunteerhub-api/internal/middleware"
	"github.com/voluntia/volunteerhub-api/internal/models"
)

// GetNotifications lists the authenticated user's notifications. A user
// with none gets a 404 rather than an empty array.
func GetNotifications(c *fiber.Ctx) error {
	notifications, err := Notifications.ListForUser(middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notifications)
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	n, err := Notifications.MarkRead(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(n)
}

// DeleteNotification removes a notification.
func DeleteNotification(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	if err := Notifications.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterDeviceToken stores the caller's FCM token so dispatched
// notifications can be mirrored as push messages.
func RegisterDeviceToken(c *fiber.Ctx) error {
	var req models.RegisterDeviceTokenRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.GetUserID(c)
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", req.Token)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Device token registered"})
}
