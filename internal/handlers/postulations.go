package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voluntia/volunteerhub-api/internal/middleware"
	"github.com/voluntia/volunteerhub-api/internal/models"
	"github.com/voluntia/volunteerhub-api/internal/services"
)

// CreatePostulation registers a volunteer's application to a project.
func CreatePostulation(c *fiber.Ctx) error {
	var req models.CreatePostulationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Volunteers apply for themselves unless a privileged caller supplies
	// the applicant explicitly.
	if req.UserID == uuid.Nil {
		req.UserID = middleware.GetUserID(c)
	}

	postulation, err := Postulations.Create(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(postulation)
}

// GetPostulations lists every postulation (coordination view).
func GetPostulations(c *fiber.Ctx) error {
	postulations, err := Postulations.ListAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(postulations)
}

// GetPostulationsByUser lists a volunteer's postulations with project info.
func GetPostulationsByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	postulations, err := Postulations.ListByUser(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(postulations)
}

// GetPostulationsByProject lists a project's applicants.
func GetPostulationsByProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	postulations, err := Postulations.ListByProject(projectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(postulations)
}

// UpdatePostulationStatus moves a batch of postulations to a new status.
// Accepting triggers a notification to each applicant.
func UpdatePostulationStatus(c *fiber.Ctx) error {
	if !services.Allow(middleware.GetRole(c), services.ActionManagePostulations) {
		return respondError(c, services.ErrForbidden)
	}

	var req models.UpdatePostulationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	postulations, err := Postulations.UpdateStatus(req.IDs, req.NewStatus)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Postulations status updated successfully",
		"postulations": postulations,
	})
}

// DeletePostulation removes a postulation outright.
func DeletePostulation(c *fiber.Ctx) error {
	if !services.Allow(middleware.GetRole(c), services.ActionManagePostulations) {
		return respondError(c, services.ErrForbidden)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid postulation ID",
		})
	}

	if err := Postulations.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
