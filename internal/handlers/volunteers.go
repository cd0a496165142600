package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voluntia/volunteerhub-api/internal/middleware"
	"github.com/voluntia/volunteerhub-api/internal/models"
	"github.com/voluntia/volunteerhub-api/internal/services"
)

// GetMyProfile returns the authenticated volunteer's profile, or an
// absence payload inviting creation.
func GetMyProfile(c *fiber.Ctx) error {
	return profileResponse(c, middleware.GetUserID(c))
}

// GetProfile returns another volunteer's profile.
func GetProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}
	return profileResponse(c, userID)
}

func profileResponse(c *fiber.Ctx, userID uuid.UUID) error {
	profile, absence, err := Volunteers.Get(userID)
	if err != nil {
		return respondError(c, err)
	}
	if absence != nil {
		return c.JSON(absence)
	}
	return c.JSON(profile)
}

// CreateProfile creates a profile with the user-owned fields. Volunteers
// create their own; admins may create on behalf of a user.
func CreateProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}
	if userID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		return respondError(c, services.ErrForbidden)
	}

	var req models.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.CreateInitial(userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// UpdateProfile upserts the user-owned slice of a profile. Metrics, history
// and tier are out of reach here.
func UpdateProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.UpdateUserFields(middleware.GetUserID(c), middleware.GetRole(c), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateSkills replaces the caller's skill proficiency map.
func UpdateSkills(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req models.UpdateSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.UpdateSkills(middleware.GetUserID(c), middleware.GetRole(c), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfileImage sets the avatar.
func UpdateProfileImage(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req models.UpdateProfileImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.UpdateProfileImage(middleware.GetUserID(c), middleware.GetRole(c), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// AddProjectToHistory opens a participation record. Coordinator or admin.
func AddProjectToHistory(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var req models.AddProjectHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.AddProjectToHistory(middleware.GetRole(c), userID, projectID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// CompleteProject closes a participation and recomputes the success rate.
func CompleteProject(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var req models.CompleteProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.CompleteProject(middleware.GetRole(c), userID, projectID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMetrics patches the coordinator-maintained ratings.
func UpdateMetrics(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req models.UpdateMetricsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.UpdateMetrics(middleware.GetRole(c), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// AddBadge grants a recognition. Admin only.
func AddBadge(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req models.AddBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.AddBadge(middleware.GetRole(c), userID, req.BadgeName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateVolunteerStatus switches the regular/premium tier. Admin only.
func UpdateVolunteerStatus(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req models.UpdateStatusTierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := Volunteers.UpdateStatusTier(middleware.GetRole(c), userID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetAllProfiles pages through every profile. Admin only.
func GetAllProfiles(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := Volunteers.ListAll(middleware.GetRole(c), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetVolunteerTracking returns the participation overview a coordinator
// sees for one volunteer.
func GetVolunteerTracking(c *fiber.Ctx) error {
	volunteerID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	tracking, err := Volunteers.Tracking(volunteerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tracking)
}
