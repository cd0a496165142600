package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Volunteer status tiers, assigned by administrators.
const (
	TierRegular = "regular"
	TierPremium = "premium"
)

func ValidStatusTier(s string) bool {
	return s == TierRegular || s == TierPremium
}

// SocialMedia holds a volunteer's public links.
type SocialMedia struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// ProfileImage is an optional avatar reference.
type ProfileImage struct {
	URL        string     `json:"url"`
	AltText    string     `json:"altText"`
	UploadedAt *time.Time `json:"uploadedAt"`
}

// VolunteerProfile is the per-volunteer performance record. Preference and
// social fields are user-editable; counters, metrics, history, badges and
// the status tier are written only by coordinators/admins. SuccessRate is
// derived: completedProjects/totalProjects*100, and 0 while totalProjects
// is 0.
type VolunteerProfile struct {
	ID                  uuid.UUID                          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID                          `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	Status              string                             `json:"status" gorm:"not null;default:'regular'"` // regular, premium
	TotalProjects       int                                `json:"totalProjects" gorm:"default:0"`
	CompletedProjects   int                                `json:"completedProjects" gorm:"default:0"`
	TotalHours          float64                            `json:"totalHours" gorm:"default:0"`
	Reliability         float64                            `json:"reliability" gorm:"default:5"`
	Punctuality         float64                            `json:"punctuality" gorm:"default:5"`
	TaskQuality         float64                            `json:"taskQuality" gorm:"default:5"`
	SuccessRate         float64                            `json:"successRate" gorm:"default:0"`
	SkillProficiency    datatypes.JSONType[map[string]int] `json:"skillProficiency"`
	PreferredCauses     datatypes.JSONSlice[string]        `json:"preferredCauses"`
	LocationPreferences datatypes.JSONSlice[string]        `json:"locationPreferences"`
	AvailabilityHours   float64                            `json:"availabilityHours" gorm:"default:0"`
	SocialMedia         SocialMedia                        `json:"socialMedia" gorm:"embedded;embeddedPrefix:social_"`
	ProfileImage        ProfileImage                       `json:"profileImage" gorm:"embedded;embeddedPrefix:image_"`
	LastActive          time.Time                          `json:"lastActive"`
	CreatedAt           time.Time                          `json:"createdAt"`
	UpdatedAt           time.Time                          `json:"updatedAt"`

	User           *User                 `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ProjectHistory []ProjectHistoryEntry `json:"projectHistory,omitempty" gorm:"foreignKey:ProfileID"`
	Badges         []Badge               `json:"badges,omitempty" gorm:"foreignKey:ProfileID"`
}

func (p *VolunteerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.LastActive.IsZero() {
		p.LastActive = time.Now()
	}
	return nil
}

// RecomputeSuccessRate refreshes the derived rate from the stored counters.
func (p *VolunteerProfile) RecomputeSuccessRate() {
	if p.TotalProjects == 0 {
		p.SuccessRate = 0
		return
	}
	p.SuccessRate = float64(p.CompletedProjects) / float64(p.TotalProjects) * 100
}

// ProjectHistoryEntry records one project participation inside a profile.
type ProjectHistoryEntry struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProfileID   uuid.UUID  `json:"-" gorm:"type:uuid;index;not null"`
	ProjectID   uuid.UUID  `json:"projectId" gorm:"type:uuid;index;not null"`
	Role        string     `json:"role" gorm:"not null"`
	Performance *float64   `json:"performance"` // 1 .. 10
	Feedback    string     `json:"feedback"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (e *ProjectHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Badge is a recognition granted by an administrator.
type Badge struct {
	ID        uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	ProfileID uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	EarnedAt  time.Time `json:"earnedAt"`
}

func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.EarnedAt.IsZero() {
		b.EarnedAt = time.Now()
	}
	return nil
}

// Profile DTOs

type CreateProfileRequest struct {
	PreferredCauses     []string                   `json:"preferredCauses"`
	LocationPreferences []string                   `json:"locationPreferences"`
	AvailabilityHours   float64                    `json:"availabilityHours"`
	SocialMedia         *SocialMedia               `json:"socialMedia"`
	ProfileImage        *UpdateProfileImageRequest `json:"profileImage"`
}

type UpdateProfileRequest struct {
	PreferredCauses     *[]string                  `json:"preferredCauses"`
	LocationPreferences *[]string                  `json:"locationPreferences"`
	AvailabilityHours   *float64                   `json:"availabilityHours"`
	SocialMedia         *SocialMedia               `json:"socialMedia"`
	ProfileImage        *UpdateProfileImageRequest `json:"profileImage"`
}

type UpdateSkillsRequest struct {
	Skills map[string]int `json:"skills" validate:"required"`
}

type UpdateProfileImageRequest struct {
	URL     string `json:"url" validate:"required"`
	AltText string `json:"altText"`
}

type AddProjectHistoryRequest struct {
	Role      string     `json:"role" validate:"required"`
	StartDate *time.Time `json:"startDate"`
}

type CompleteProjectRequest struct {
	Performance *float64   `json:"performance"`
	Feedback    string     `json:"feedback"`
	EndDate     *time.Time `json:"endDate"`
}

type UpdateMetricsRequest struct {
	Reliability *float64 `json:"reliability"`
	Punctuality *float64 `json:"punctuality"`
	TaskQuality *float64 `json:"taskQuality"`
	TotalHours  *float64 `json:"totalHours"`
}

type AddBadgeRequest struct {
	BadgeName string `json:"badgeName" validate:"required"`
}

type UpdateStatusTierRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProfileAbsence is returned instead of an error when a volunteer has no
// profile yet, so callers can decide to create one.
type ProfileAbsence struct {
	Message string    `json:"message"`
	Exists  bool      `json:"exists"`
	UserID  uuid.UUID `json:"userId"`
}

// ProfilePage is the admin listing payload.
type ProfilePage struct {
	Profiles   []VolunteerProfile `json:"profiles"`
	Pagination Pagination         `json:"pagination"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// TrackingEntry is one row of the coordinator-facing volunteer tracking
// projection: the volunteer's postulations joined with project display
// fields.
type TrackingEntry struct {
	ProjectName       string     `json:"projectName"`
	ProjectStart      *time.Time `json:"projectStart"`
	ProjectEnd        *time.Time `json:"projectEnd"`
	ProjectStatus     string     `json:"projectStatus"`
	PostulationStatus string     `json:"postulationStatus"`
}

type VolunteerTracking struct {
	Volunteer string          `json:"volunteer"`
	Tracking  []TrackingEntry `json:"tracking"`
}
