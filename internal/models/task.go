package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses. No transition graph is enforced; any status may follow
// any other.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskArchived   = "archived"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Completion quality grades, used to adjust credited hours.
const (
	QualityPending = "pending"
	QualityBelow   = "below_expectations"
	QualityMeets   = "meets_expectations"
	QualityExceeds = "exceeds_expectations"
)

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskArchived:
		return true
	}
	return false
}

func ValidTaskPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidCompletionQuality(s string) bool {
	switch s {
	case QualityPending, QualityBelow, QualityMeets, QualityExceeds:
		return true
	}
	return false
}

// Task is a unit of project work assigned to one or more volunteers.
// Comments, time entries and the status history are owned child rows; they
// are never addressed outside their parent task.
type Task struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title             string     `json:"title" gorm:"not null"`
	Description       string     `json:"description" gorm:"type:text;not null"`
	ProjectID         uuid.UUID  `json:"projectId" gorm:"type:uuid;index;not null"`
	Status            string     `json:"status" gorm:"not null;default:'pending'"`
	Priority          string     `json:"priority" gorm:"not null;default:'medium'"`
	DueDate           *time.Time `json:"dueDate"`
	EstimatedHours    float64    `json:"estimatedHours" gorm:"default:1"`
	TotalHoursLogged  float64    `json:"totalHoursLogged" gorm:"default:0"`
	CompletionQuality string     `json:"completionQuality" gorm:"default:'pending'"`
	HourAdjustment    float64    `json:"hourAdjustment" gorm:"default:0"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	Project     *Project           `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Assignees   []TaskAssignee     `json:"assignees,omitempty" gorm:"foreignKey:TaskID"`
	Comments    []TaskComment      `json:"comments,omitempty" gorm:"foreignKey:TaskID"`
	TimeEntries []TimeEntry        `json:"timeEntries,omitempty" gorm:"foreignKey:TaskID"`
	History     []TaskHistoryEntry `json:"history,omitempty" gorm:"foreignKey:TaskID"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// AssigneeIDs returns the distinct user IDs assigned to the task.
func (t *Task) AssigneeIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(t.Assignees))
	ids := make([]uuid.UUID, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		if !seen[a.UserID] {
			seen[a.UserID] = true
			ids = append(ids, a.UserID)
		}
	}
	return ids
}

// TaskAssignee links a task to an assigned volunteer.
type TaskAssignee struct {
	ID     uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	TaskID uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (a *TaskAssignee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type TaskComment struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TaskID  uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	UserID  uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	Comment string    `json:"comment" gorm:"type:text;not null"`
	Date    time.Time `json:"date"`
}

func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	return nil
}

// TimeEntry records hours a volunteer logged against a task. Entries start
// unapproved; a coordinator stamps the approval.
type TimeEntry struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TaskID       uuid.UUID  `json:"-" gorm:"type:uuid;index;not null"`
	UserID       uuid.UUID  `json:"userId" gorm:"type:uuid;not null"`
	Hours        float64    `json:"hours" gorm:"not null"` // 0.25 .. 24
	Description  string     `json:"description" gorm:"not null"`
	Date         time.Time  `json:"date"`
	Approved     bool       `json:"approved" gorm:"default:false"`
	ApprovedBy   *uuid.UUID `json:"approvedBy" gorm:"type:uuid"`
	ApprovalDate *time.Time `json:"approvalDate"`
}

func (e *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	return nil
}

// TaskHistoryEntry is one append-only audit row. Exactly one row is written
// per status change, in the same transaction as the status itself.
type TaskHistoryEntry struct {
	ID        uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	TaskID    uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	Status    string    `json:"status" gorm:"not null"`
	ChangedAt time.Time `json:"changedAt"`
}

func (h *TaskHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.ChangedAt.IsZero() {
		h.ChangedAt = time.Now()
	}
	return nil
}

// Task DTOs

type CreateTaskRequest struct {
	Title          string      `json:"title" validate:"required"`
	Description    string      `json:"description" validate:"required"`
	ProjectID      uuid.UUID   `json:"projectId" validate:"required"`
	AssignedTo     []uuid.UUID `json:"assignedTo"`
	Status         string      `json:"status"`
	Priority       string      `json:"priority"`
	DueDate        *time.Time  `json:"dueDate"`
	EstimatedHours float64     `json:"estimatedHours"`
}

type UpdateTaskRequest struct {
	Title             *string      `json:"title"`
	Description       *string      `json:"description"`
	Status            *string      `json:"status"`
	Priority          *string      `json:"priority"`
	DueDate           *time.Time   `json:"dueDate"`
	EstimatedHours    *float64     `json:"estimatedHours"`
	CompletionQuality *string      `json:"completionQuality"`
	HourAdjustment    *float64     `json:"hourAdjustment"`
	AssignedTo        *[]uuid.UUID `json:"assignedTo"`
}

type AddTaskCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type LogTimeRequest struct {
	Hours       float64 `json:"hours" validate:"required,gte=0.25,lte=24"`
	Description string  `json:"description" validate:"required"`
}
