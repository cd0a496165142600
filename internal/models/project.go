package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a read model of the external project registry. The workflow
// only references projects by ID and joins display fields into responses;
// project lifecycle is owned elsewhere.
type Project struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name               string     `json:"name" gorm:"not null"`
	Description        string     `json:"description"`
	Requirements       string     `json:"requirements"`
	ProjectType        string     `json:"projectType"`
	Status             string     `json:"status"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	VolunteersRequired int        `json:"volunteersRequired"`
	BannerImage        string     `json:"bannerImage"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
