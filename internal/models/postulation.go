package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Postulation statuses.
const (
	PostulationPending  = "pending"
	PostulationAccepted = "accepted"
	PostulationRejected = "rejected"
)

// ValidPostulationStatus reports whether s is a member of the status enum.
func ValidPostulationStatus(s string) bool {
	switch s {
	case PostulationPending, PostulationAccepted, PostulationRejected:
		return true
	}
	return false
}

// Postulation is a volunteer's application to join a project. At most one
// postulation exists per (user, project) pair; the check happens before
// insert rather than as a DB constraint.
type Postulation struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	ProjectID       uuid.UUID `json:"projectId" gorm:"type:uuid;index;not null"`
	Status          string    `json:"status" gorm:"not null;default:'pending'"` // pending, accepted, rejected
	ApplicationDate time.Time `json:"applicationDate"`
	Comments        string    `json:"comments"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (p *Postulation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ApplicationDate.IsZero() {
		p.ApplicationDate = time.Now()
	}
	return nil
}

type CreatePostulationRequest struct {
	UserID    uuid.UUID `json:"userId" validate:"required"`
	ProjectID uuid.UUID `json:"projectId" validate:"required"`
	Comments  string    `json:"comments"`
}

type UpdatePostulationStatusRequest struct {
	IDs       []uuid.UUID `json:"ids" validate:"required,min=1"`
	NewStatus string      `json:"newStatus" validate:"required"`
}
