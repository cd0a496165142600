package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Caller roles. Tokens are issued by the external identity provider; the
// role claim is trusted as-is.
const (
	RoleVolunteer   = "volunteer"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// User mirrors the identity provider's volunteer record. This service never
// creates or authenticates users; it only reads display fields and the FCM
// token for push delivery.
type User struct {
	ID        uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string                      `json:"name" gorm:"not null"`
	DNI       string                      `json:"dni"`
	Email     string                      `json:"email" gorm:"uniqueIndex;not null"`
	Address   string                      `json:"address"`
	Phone     string                      `json:"phone"`
	Skills    datatypes.JSONSlice[string] `json:"skills"`
	Role      string                      `json:"role" gorm:"default:volunteer"` // volunteer, coordinator, admin
	FCMToken  string                      `json:"-" gorm:"column:fcm_token"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
