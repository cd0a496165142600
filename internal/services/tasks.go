package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

// StatusChangeMessage builds the notification text for a task transition.
// The dispatcher dedups on the literal result: repeating a transition sends
// nothing, and a task revisiting a status it already announced is also
// suppressed.
func StatusChangeMessage(title, status string) string {
	return fmt.Sprintf(`La tarea "%s" cambió a "%s".`, title, status)
}

// TaskService manages project work items and their audit history.
type TaskService struct {
	db       *gorm.DB
	notifier Notifier
	log      *zap.Logger
}

func NewTaskService(db *gorm.DB, notifier Notifier, log *zap.Logger) *TaskService {
	return &TaskService{db: db, notifier: notifier, log: log}
}

// Create persists a new task with its assignee links. The due date, when
// present, must not be in the past.
func (s *TaskService) Create(req models.CreateTaskRequest) (*models.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TaskPending
	}
	if !models.ValidTaskStatus(status) {
		return nil, invalid("invalid task status", "status")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, invalid("invalid task priority", "priority")
	}

	hours := req.EstimatedHours
	if hours == 0 {
		hours = 1
	}
	if hours < 0.5 {
		return nil, invalid("estimated hours must be at least 0.5", "estimatedHours")
	}

	if req.DueDate != nil && req.DueDate.Before(time.Now()) {
		return nil, invalid("due date cannot be in the past", "dueDate")
	}

	task := models.Task{
		Title:             req.Title,
		Description:       req.Description,
		ProjectID:         req.ProjectID,
		Status:            status,
		Priority:          priority,
		DueDate:           req.DueDate,
		EstimatedHours:    hours,
		CompletionQuality: models.QualityPending,
		Assignees:         assigneeRows(req.AssignedTo),
	}
	if err := s.db.Create(&task).Error; err != nil {
		s.log.Error("task create failed", zap.Error(err))
		return nil, serverError("create task", err)
	}
	return &task, nil
}

// Get returns a task with children and display fields preloaded.
func (s *TaskService) Get(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.Preload("Project").
		Preload("Assignees.User").
		Preload("Comments").
		Preload("TimeEntries").
		Preload("History", orderedHistory).
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task")
		}
		return nil, serverError("load task", err)
	}
	return &task, nil
}

// Update applies a patch. A status change appends exactly one history row
// in the same transaction as the status write, then notifies every distinct
// assignee. Any other field change is silent.
func (s *TaskService) Update(id uuid.UUID, patch models.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := s.db.Preload("Assignees").First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task")
		}
		return nil, serverError("load task", err)
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !models.ValidTaskPriority(*patch.Priority) {
			return nil, invalid("invalid task priority", "priority")
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.EstimatedHours != nil {
		if *patch.EstimatedHours < 0.5 {
			return nil, invalid("estimated hours must be at least 0.5", "estimatedHours")
		}
		task.EstimatedHours = *patch.EstimatedHours
	}
	if patch.CompletionQuality != nil {
		if !models.ValidCompletionQuality(*patch.CompletionQuality) {
			return nil, invalid("invalid completion quality", "completionQuality")
		}
		task.CompletionQuality = *patch.CompletionQuality
	}
	if patch.HourAdjustment != nil {
		task.HourAdjustment = *patch.HourAdjustment
	}

	statusChanged := patch.Status != nil && *patch.Status != task.Status
	if statusChanged {
		if !models.ValidTaskStatus(*patch.Status) {
			return nil, invalid("invalid task status", "status")
		}
		task.Status = *patch.Status
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if patch.AssignedTo != nil {
			if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignee{}).Error; err != nil {
				return err
			}
			task.Assignees = assigneeRows(*patch.AssignedTo)
			for i := range task.Assignees {
				task.Assignees[i].TaskID = task.ID
			}
			if len(task.Assignees) > 0 {
				if err := tx.Create(&task.Assignees).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.Omit("Assignees").Save(&task).Error; err != nil {
			return err
		}
		if statusChanged {
			return tx.Create(&models.TaskHistoryEntry{TaskID: task.ID, Status: task.Status}).Error
		}
		return nil
	})
	if err != nil {
		s.log.Error("task update failed", zap.String("id", id.String()), zap.Error(err))
		return nil, serverError("update task", err)
	}

	if statusChanged {
		message := StatusChangeMessage(task.Title, task.Status)
		for _, userID := range task.AssigneeIDs() {
			if _, err := s.notifier.Dispatch(userID, message); err != nil {
				// A lost notification is not compensated; the status change
				// already happened.
				s.log.Error("status change notification failed",
					zap.String("taskId", task.ID.String()),
					zap.String("userId", userID.String()),
					zap.Error(err))
			}
		}
	}
	return &task, nil
}

// GetHistory returns the ordered audit trail. A task with no transitions
// yields an empty slice, not an error.
func (s *TaskService) GetHistory(id uuid.UUID) ([]models.TaskHistoryEntry, error) {
	var task models.Task
	if err := s.db.Select("id").First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task")
		}
		return nil, serverError("load task", err)
	}

	history := make([]models.TaskHistoryEntry, 0)
	if err := s.db.Where("task_id = ?", id).
		Order("changed_at ASC").
		Find(&history).Error; err != nil {
		return nil, serverError("load task history", err)
	}
	return history, nil
}

// ListAll returns every task, optionally filtered by status.
func (s *TaskService) ListAll(status string) ([]models.Task, error) {
	q := s.db.Preload("Project").Preload("Assignees.User")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		s.log.Error("task list failed", zap.Error(err))
		return nil, serverError("list tasks", err)
	}
	return tasks, nil
}

// ListByProject returns a project's tasks. An empty result is reported as
// not found for API compatibility.
func (s *TaskService) ListByProject(projectID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Project").
		Preload("Assignees.User").
		Find(&tasks).Error; err != nil {
		s.log.Error("task list by project failed", zap.Error(err))
		return nil, serverError("list tasks", err)
	}
	if len(tasks) == 0 {
		return nil, notFound("tasks for project")
	}
	return tasks, nil
}

// ListByAssigneeAndProject returns the tasks a volunteer holds on one project.
func (s *TaskService) ListByAssigneeAndProject(userID, projectID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ? AND tasks.project_id = ?", userID, projectID).
		Find(&tasks).Error
	if err != nil {
		s.log.Error("task list by assignee and project failed", zap.Error(err))
		return nil, serverError("list tasks", err)
	}
	return tasks, nil
}

// ListAssignedTo returns every task assigned to a volunteer.
func (s *TaskService) ListAssignedTo(userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID).
		Preload("Project").
		Preload("Assignees.User").
		Find(&tasks).Error
	if err != nil {
		s.log.Error("task list by assignee failed", zap.Error(err))
		return nil, serverError("list tasks", err)
	}
	return tasks, nil
}

// Delete removes a task and its owned children permanently.
func (s *TaskService) Delete(id uuid.UUID) error {
	var task models.Task
	if err := s.db.Select("id").First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("task")
		}
		return serverError("load task", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.TaskAssignee{}, &models.TaskComment{},
			&models.TimeEntry{}, &models.TaskHistoryEntry{},
		} {
			if err := tx.Where("task_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		s.log.Error("task delete failed", zap.String("id", id.String()), zap.Error(err))
		return serverError("delete task", err)
	}
	return nil
}

// AddComment appends a comment to a task.
func (s *TaskService) AddComment(taskID, userID uuid.UUID, req models.AddTaskCommentRequest) (*models.TaskComment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var task models.Task
	if err := s.db.Select("id").First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task")
		}
		return nil, serverError("load task", err)
	}

	comment := models.TaskComment{TaskID: taskID, UserID: userID, Comment: req.Comment}
	if err := s.db.Create(&comment).Error; err != nil {
		s.log.Error("task comment create failed", zap.Error(err))
		return nil, serverError("add comment", err)
	}
	return &comment, nil
}

// LogTime records hours worked against a task and refreshes the task's
// total. Entries are between 15 minutes and one day.
func (s *TaskService) LogTime(taskID, userID uuid.UUID, req models.LogTimeRequest) (*models.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var task models.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task")
		}
		return nil, serverError("load task", err)
	}

	entry := models.TimeEntry{
		TaskID:      taskID,
		UserID:      userID,
		Hours:       req.Hours,
		Description: req.Description,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		var total float64
		if err := tx.Model(&models.TimeEntry{}).
			Where("task_id = ?", taskID).
			Select("COALESCE(SUM(hours), 0)").
			Scan(&total).Error; err != nil {
			return err
		}
		task.TotalHoursLogged = total
		return tx.Save(&task).Error
	})
	if err != nil {
		s.log.Error("time entry create failed", zap.Error(err))
		return nil, serverError("log time", err)
	}

	task.TimeEntries = append(task.TimeEntries, entry)
	return &task, nil
}

// ApproveTimeEntry stamps a coordinator's approval on a logged entry.
func (s *TaskService) ApproveTimeEntry(role string, taskID, entryID, approverID uuid.UUID) (*models.TimeEntry, error) {
	if !Allow(role, ActionApproveTime) {
		return nil, ErrForbidden
	}

	var entry models.TimeEntry
	err := s.db.Where("id = ? AND task_id = ?", entryID, taskID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("time entry")
		}
		return nil, serverError("load time entry", err)
	}

	now := time.Now()
	entry.Approved = true
	entry.ApprovedBy = &approverID
	entry.ApprovalDate = &now
	if err := s.db.Save(&entry).Error; err != nil {
		s.log.Error("time entry approve failed", zap.Error(err))
		return nil, serverError("approve time entry", err)
	}
	return &entry, nil
}

func assigneeRows(userIDs []uuid.UUID) []models.TaskAssignee {
	seen := make(map[uuid.UUID]bool, len(userIDs))
	rows := make([]models.TaskAssignee, 0, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.TaskAssignee{UserID: id})
	}
	return rows
}

func orderedHistory(db *gorm.DB) *gorm.DB {
	return db.Order("changed_at ASC")
}
