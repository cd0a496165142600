package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voluntia/volunteerhub-api/internal/middleware"
	"github.com/voluntia/volunteerhub-api/internal/models"
)

// CreateTask persists a new work item.
func CreateTask(c *fiber.Ctx) error {
	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := Tasks.Create(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// GetTasks lists all tasks, optionally filtered by ?status=.
func GetTasks(c *fiber.Ctx) error {
	tasks, err := Tasks.ListAll(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// GetTask returns one task with its children and history.
func GetTask(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	task, err := Tasks.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

// UpdateTask applies a patch; status changes are audited and announced to
// the assignees.
func UpdateTask(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := Tasks.Update(id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

// DeleteTask removes a task permanently.
func DeleteTask(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	if err := Tasks.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTaskHistory returns the ordered status audit trail.
func GetTaskHistory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	history, err := Tasks.GetHistory(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}

// GetTasksByProject lists a project's tasks. Responds 404 when the project
// has none.
func GetTasksByProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	tasks, err := Tasks.ListByProject(projectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// GetTasksByUserAndProject lists the tasks a volunteer holds on a project.
func GetTasksByUserAndProject(c *fiber.Ctx) error {
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

	tasks, err := Tasks.ListByAssigneeAndProject(userID, projectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// GetAssignedTasks lists the authenticated volunteer's tasks.
func GetAssignedTasks(c *fiber.Ctx) error {
	tasks, err := Tasks.ListAssignedTo(middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// AddTaskComment appends a comment by the authenticated user.
func AddTaskComment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req models.AddTaskCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	comment, err := Tasks.AddComment(id, middleware.GetUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// LogTaskTime records hours the authenticated user worked on a task.
func LogTaskTime(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req models.LogTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := Tasks.LogTime(id, middleware.GetUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// ApproveTimeEntry stamps a coordinator's approval on a logged time entry.
func ApproveTimeEntry(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}
	entryID, err := uuid.Parse(c.Params("entryId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid time entry ID",
		})
	}

	entry, err := Tasks.ApproveTimeEntry(middleware.GetRole(c), taskID, entryID, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}
