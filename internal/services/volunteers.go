package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

// VolunteerService maintains the per-volunteer performance record: project
// history, counters, derived success rate, skills, badges and status tier.
type VolunteerService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewVolunteerService(db *gorm.DB, log *zap.Logger) *VolunteerService {
	return &VolunteerService{db: db, log: log}
}

// Get returns the profile, or an absence sentinel when the volunteer has
// none yet. Absence is not an error; callers use it to offer creation.
func (s *VolunteerService) Get(userID uuid.UUID) (*models.VolunteerProfile, *models.ProfileAbsence, error) {
	var profile models.VolunteerProfile
	err := s.db.Where("user_id = ?", userID).
		Preload("User").
		Preload("ProjectHistory.Project").
		Preload("Badges").
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.ProfileAbsence{
			Message: "no profile exists for this user yet",
			Exists:  false,
			UserID:  userID,
		}, nil
	}
	if err != nil {
		s.log.Error("profile load failed", zap.Error(err))
		return nil, nil, serverError("load profile", err)
	}
	return &profile, nil, nil
}

// CreateInitial creates the profile with the user-owned fields only. The
// volunteer identity must already exist.
func (s *VolunteerService) CreateInitial(userID uuid.UUID, req models.CreateProfileRequest) (*models.VolunteerProfile, error) {
	var existing models.VolunteerProfile
	err := s.db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil, conflict("a profile for this user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, serverError("check existing profile", err)
	}

	if err := s.requireUser(userID); err != nil {
		return nil, err
	}

	profile := models.VolunteerProfile{
		UserID:              userID,
		Status:              models.TierRegular,
		Reliability:         5,
		Punctuality:         5,
		TaskQuality:         5,
		PreferredCauses:     req.PreferredCauses,
		LocationPreferences: req.LocationPreferences,
		AvailabilityHours:   req.AvailabilityHours,
	}
	if req.SocialMedia != nil {
		profile.SocialMedia = *req.SocialMedia
	}
	if req.ProfileImage != nil && req.ProfileImage.URL != "" {
		now := time.Now()
		profile.ProfileImage = models.ProfileImage{
			URL:        req.ProfileImage.URL,
			AltText:    req.ProfileImage.AltText,
			UploadedAt: &now,
		}
	}

	if err := s.db.Create(&profile).Error; err != nil {
		s.log.Error("profile create failed", zap.Error(err))
		return nil, serverError("create profile", err)
	}
	return &profile, nil
}

// UpdateUserFields upserts the user-owned slice of the profile. Metric,
// history and tier fields are never writable through this path.
func (s *VolunteerService) UpdateUserFields(callerID uuid.UUID, callerRole string, userID uuid.UUID, req models.UpdateProfileRequest) (*models.VolunteerProfile, error) {
	if callerID != userID && callerRole != models.RoleAdmin {
		return nil, ErrForbidden
	}

	profile, err := s.findOrInit(userID)
	if err != nil {
		return nil, err
	}

	if req.PreferredCauses != nil {
		profile.PreferredCauses = *req.PreferredCauses
	}
	if req.LocationPreferences != nil {
		profile.LocationPreferences = *req.LocationPreferences
	}
	if req.AvailabilityHours != nil {
		profile.AvailabilityHours = *req.AvailabilityHours
	}
	if req.SocialMedia != nil {
		profile.SocialMedia = *req.SocialMedia
	}
	if req.ProfileImage != nil {
		now := time.Now()
		profile.ProfileImage = models.ProfileImage{
			URL:        req.ProfileImage.URL,
			AltText:    req.ProfileImage.AltText,
			UploadedAt: &now,
		}
	}

	if err := s.db.Save(profile).Error; err != nil {
		s.log.Error("profile update failed", zap.Error(err))
		return nil, serverError("update profile", err)
	}
	return profile, nil
}

// UpdateSkills replaces the skill map. Levels outside [1,5] are dropped
// silently rather than failing the call; only a missing map is an error.
func (s *VolunteerService) UpdateSkills(callerID uuid.UUID, callerRole string, userID uuid.UUID, req models.UpdateSkillsRequest) (*models.VolunteerProfile, error) {
	if callerID != userID && callerRole != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if req.Skills == nil {
		return nil, invalid("a skills map is required", "skills")
	}

	profile, err := s.findOrCreateForUser(userID)
	if err != nil {
		return nil, err
	}

	skills := make(map[string]int, len(req.Skills))
	for name, level := range req.Skills {
		if level >= 1 && level <= 5 {
			skills[name] = level
		}
	}
	profile.SkillProficiency = datatypes.NewJSONType(skills)

	if err := s.db.Save(profile).Error; err != nil {
		s.log.Error("skill update failed", zap.Error(err))
		return nil, serverError("update skills", err)
	}
	return profile, nil
}

// UpdateProfileImage sets the avatar, creating the profile when absent.
func (s *VolunteerService) UpdateProfileImage(callerID uuid.UUID, callerRole string, userID uuid.UUID, req models.UpdateProfileImageRequest) (*models.VolunteerProfile, error) {
	if callerID != userID && callerRole != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	profile, err := s.findOrCreateForUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile.ProfileImage = models.ProfileImage{
		URL:        req.URL,
		AltText:    req.AltText,
		UploadedAt: &now,
	}
	if err := s.db.Save(profile).Error; err != nil {
		s.log.Error("profile image update failed", zap.Error(err))
		return nil, serverError("update profile image", err)
	}
	return profile, nil
}

// AddProjectToHistory records the start of a participation and bumps the
// total-projects counter.
func (s *VolunteerService) AddProjectToHistory(callerRole string, userID, projectID uuid.UUID, req models.AddProjectHistoryRequest) (*models.VolunteerProfile, error) {
	if !Allow(callerRole, ActionManageHistory) {
		return nil, ErrForbidden
	}
	if req.Role == "" {
		return nil, invalid("role is required", "role")
	}

	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	entry := models.ProjectHistoryEntry{
		ProfileID: profile.ID,
		ProjectID: projectID,
		Role:      req.Role,
		StartDate: start,
		Completed: false,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		profile.TotalProjects++
		profile.LastActive = time.Now()
		return tx.Save(profile).Error
	})
	if err != nil {
		s.log.Error("project history append failed", zap.Error(err))
		return nil, serverError("add project to history", err)
	}

	profile.ProjectHistory = append(profile.ProjectHistory, entry)
	return profile, nil
}

// CompleteProject closes the matching incomplete participation, bumps the
// completed counter and recomputes the success rate.
func (s *VolunteerService) CompleteProject(callerRole string, userID, projectID uuid.UUID, req models.CompleteProjectRequest) (*models.VolunteerProfile, error) {
	if !Allow(callerRole, ActionManageHistory) {
		return nil, ErrForbidden
	}
	if req.Performance != nil && (*req.Performance < 1 || *req.Performance > 10) {
		return nil, invalid("performance must be between 1 and 10", "performance")
	}

	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}

	var entry models.ProjectHistoryEntry
	err = s.db.Where("profile_id = ? AND project_id = ? AND completed = ?", profile.ID, projectID, false).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("project in history")
		}
		return nil, serverError("load project history", err)
	}

	end := time.Now()
	if req.EndDate != nil {
		end = *req.EndDate
	}
	entry.Completed = true
	entry.EndDate = &end
	if req.Performance != nil {
		entry.Performance = req.Performance
	}
	if req.Feedback != "" {
		entry.Feedback = req.Feedback
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		profile.CompletedProjects++
		profile.RecomputeSuccessRate()
		return tx.Save(profile).Error
	})
	if err != nil {
		s.log.Error("project completion failed", zap.Error(err))
		return nil, serverError("complete project", err)
	}
	return profile, nil
}

// UpdateMetrics patches the coordinator-maintained ratings. Only supplied
// fields change; each rating must sit in [0,10].
func (s *VolunteerService) UpdateMetrics(callerRole string, userID uuid.UUID, req models.UpdateMetricsRequest) (*models.VolunteerProfile, error) {
	if !Allow(callerRole, ActionManageMetrics) {
		return nil, ErrForbidden
	}
	for _, m := range []struct {
		name  string
		value *float64
	}{
		{"reliability", req.Reliability},
		{"punctuality", req.Punctuality},
		{"taskQuality", req.TaskQuality},
	} {
		if m.value != nil && (*m.value < 0 || *m.value > 10) {
			return nil, invalid("metrics must be between 0 and 10", m.name)
		}
	}

	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Reliability != nil {
		profile.Reliability = *req.Reliability
	}
	if req.Punctuality != nil {
		profile.Punctuality = *req.Punctuality
	}
	if req.TaskQuality != nil {
		profile.TaskQuality = *req.TaskQuality
	}
	if req.TotalHours != nil {
		profile.TotalHours = *req.TotalHours
	}

	if err := s.db.Save(profile).Error; err != nil {
		s.log.Error("metric update failed", zap.Error(err))
		return nil, serverError("update metrics", err)
	}
	return profile, nil
}

// AddBadge grants a recognition. Administrator only.
func (s *VolunteerService) AddBadge(callerRole string, userID uuid.UUID, badgeName string) (*models.VolunteerProfile, error) {
	if !Allow(callerRole, ActionManageBadges) {
		return nil, ErrForbidden
	}
	if badgeName == "" {
		return nil, invalid("badge name is required", "badgeName")
	}

	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}

	badge := models.Badge{ProfileID: profile.ID, Name: badgeName}
	if err := s.db.Create(&badge).Error; err != nil {
		s.log.Error("badge create failed", zap.Error(err))
		return nil, serverError("add badge", err)
	}
	profile.Badges = append(profile.Badges, badge)
	return profile, nil
}

// UpdateStatusTier switches a volunteer between regular and premium.
// Administrator only; the tier is independent of task or postulation state.
func (s *VolunteerService) UpdateStatusTier(callerRole string, userID uuid.UUID, status string) (*models.VolunteerProfile, error) {
	if !Allow(callerRole, ActionManageTier) {
		return nil, ErrForbidden
	}
	if !models.ValidStatusTier(status) {
		return nil, invalid(`status must be "regular" or "premium"`, "status")
	}

	profile, err := s.findByUser(userID)
	if err != nil {
		return nil, err
	}

	profile.Status = status
	if err := s.db.Save(profile).Error; err != nil {
		s.log.Error("status tier update failed", zap.Error(err))
		return nil, serverError("update status tier", err)
	}
	return profile, nil
}

// ListAll pages through every profile, newest first. Administrator only.
func (s *VolunteerService) ListAll(callerRole string, page, limit int) (*models.ProfilePage, error) {
	if !Allow(callerRole, ActionListProfiles) {
		return nil, ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var profiles []models.VolunteerProfile
	err := s.db.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		s.log.Error("profile list failed", zap.Error(err))
		return nil, serverError("list profiles", err)
	}

	var total int64
	if err := s.db.Model(&models.VolunteerProfile{}).Count(&total).Error; err != nil {
		return nil, serverError("count profiles", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &models.ProfilePage{
		Profiles:   profiles,
		Pagination: models.Pagination{Total: total, Page: page, Pages: pages},
	}, nil
}

// Tracking builds the coordinator view of a volunteer's participations:
// their postulations joined with project status and dates.
func (s *VolunteerService) Tracking(volunteerID uuid.UUID) (*models.VolunteerTracking, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", volunteerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("volunteer")
		}
		return nil, serverError("load volunteer", err)
	}
	if user.Role != models.RoleVolunteer {
		return nil, notFound("volunteer")
	}

	var postulations []models.Postulation
	if err := s.db.Where("user_id = ?", volunteerID).
		Preload("Project").
		Find(&postulations).Error; err != nil {
		s.log.Error("tracking load failed", zap.Error(err))
		return nil, serverError("load postulations", err)
	}

	tracking := make([]models.TrackingEntry, 0, len(postulations))
	for _, p := range postulations {
		entry := models.TrackingEntry{PostulationStatus: p.Status}
		if p.Project != nil {
			entry.ProjectName = p.Project.Name
			entry.ProjectStart = p.Project.StartDate
			entry.ProjectEnd = p.Project.EndDate
			entry.ProjectStatus = p.Project.Status
		}
		tracking = append(tracking, entry)
	}
	return &models.VolunteerTracking{Volunteer: user.Name, Tracking: tracking}, nil
}

// findByUser loads an existing profile or reports NotFound.
func (s *VolunteerService) findByUser(userID uuid.UUID) (*models.VolunteerProfile, error) {
	var profile models.VolunteerProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("profile")
		}
		return nil, serverError("load profile", err)
	}
	return &profile, nil
}

// findOrInit loads the profile or starts a blank one for upsert paths.
func (s *VolunteerService) findOrInit(userID uuid.UUID) (*models.VolunteerProfile, error) {
	var profile models.VolunteerProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.VolunteerProfile{
			UserID:      userID,
			Status:      models.TierRegular,
			Reliability: 5, Punctuality: 5, TaskQuality: 5,
		}, nil
	}
	if err != nil {
		return nil, serverError("load profile", err)
	}
	return &profile, nil
}

// findOrCreateForUser is findOrInit plus a user-existence check on the
// create path.
func (s *VolunteerService) findOrCreateForUser(userID uuid.UUID) (*models.VolunteerProfile, error) {
	profile, err := s.findOrInit(userID)
	if err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		if err := s.requireUser(userID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *VolunteerService) requireUser(userID uuid.UUID) error {
	var user models.User
	if err := s.db.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("user")
		}
		return serverError("load user", err)
	}
	return nil
}
