package services

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

// AcceptedMessage is the exact notification text sent when a postulation is
// accepted. The dispatcher dedups on this literal, so it must not change.
const AcceptedMessage = "¡Felicidades! Tu postulación ha sido aceptada para el proyecto."

// PostulationService manages a volunteer's applications to projects.
type PostulationService struct {
	db       *gorm.DB
	notifier Notifier
	log      *zap.Logger
}

func NewPostulationService(db *gorm.DB, notifier Notifier, log *zap.Logger) *PostulationService {
	return &PostulationService{db: db, notifier: notifier, log: log}
}

// Create registers a new pending postulation. A volunteer may apply to a
// project at most once, whatever the outcome of the earlier application.
func (s *PostulationService) Create(req models.CreatePostulationRequest) (*models.Postulation, error) {
	if req.UserID == uuid.Nil || req.ProjectID == uuid.Nil {
		return nil, invalid("user id and project id are required", "userId", "projectId")
	}

	var existing models.Postulation
	err := s.db.Where("user_id = ? AND project_id = ?", req.UserID, req.ProjectID).First(&existing).Error
	if err == nil {
		return nil, conflict("a postulation for this user and project already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("postulation lookup failed", zap.Error(err))
		return nil, serverError("check existing postulation", err)
	}

	p := models.Postulation{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Status:    models.PostulationPending,
		Comments:  req.Comments,
	}
	if err := s.db.Create(&p).Error; err != nil {
		s.log.Error("postulation create failed", zap.Error(err))
		return nil, serverError("create postulation", err)
	}
	return &p, nil
}

// UpdateStatus moves a batch of postulations to newStatus. Items are
// processed sequentially; a persistence failure aborts the batch, leaving
// earlier items saved. Accepted postulations trigger a congratulation
// notification to the applicant.
func (s *PostulationService) UpdateStatus(ids []uuid.UUID, newStatus string) ([]models.Postulation, error) {
	if !models.ValidPostulationStatus(newStatus) {
		return nil, invalid("status must be pending, accepted or rejected", "newStatus")
	}

	var postulations []models.Postulation
	if err := s.db.Where("id IN ?", ids).Find(&postulations).Error; err != nil {
		s.log.Error("postulation batch load failed", zap.Error(err))
		return nil, serverError("load postulations", err)
	}
	if len(postulations) == 0 {
		return nil, notFound("postulations")
	}

	for i := range postulations {
		postulations[i].Status = newStatus
		if err := s.db.Save(&postulations[i]).Error; err != nil {
			s.log.Error("postulation save failed",
				zap.String("id", postulations[i].ID.String()), zap.Error(err))
			return nil, serverError("update postulation status", err)
		}

		if newStatus == models.PostulationAccepted && postulations[i].UserID != uuid.Nil {
			if _, err := s.notifier.Dispatch(postulations[i].UserID, AcceptedMessage); err != nil {
				return nil, err
			}
		}
	}
	return postulations, nil
}

// ListByUser returns a volunteer's postulations with project display fields.
func (s *PostulationService) ListByUser(userID uuid.UUID) ([]models.Postulation, error) {
	var postulations []models.Postulation
	if err := s.db.Where("user_id = ?", userID).
		Preload("Project").
		Find(&postulations).Error; err != nil {
		s.log.Error("postulation list by user failed", zap.Error(err))
		return nil, serverError("list postulations", err)
	}
	return postulations, nil
}

// ListByProject returns a project's postulations with applicant display fields.
func (s *PostulationService) ListByProject(projectID uuid.UUID) ([]models.Postulation, error) {
	var postulations []models.Postulation
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Find(&postulations).Error; err != nil {
		s.log.Error("postulation list by project failed", zap.Error(err))
		return nil, serverError("list postulations", err)
	}
	return postulations, nil
}

// ListAll returns every postulation with both sides joined.
func (s *PostulationService) ListAll() ([]models.Postulation, error) {
	var postulations []models.Postulation
	if err := s.db.Preload("User").Preload("Project").Find(&postulations).Error; err != nil {
		s.log.Error("postulation list failed", zap.Error(err))
		return nil, serverError("list postulations", err)
	}
	return postulations, nil
}

// Delete removes a postulation outright. This is the only removal path;
// accept/reject never deletes.
func (s *PostulationService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Postulation{}, "id = ?", id)
	if result.Error != nil {
		s.log.Error("postulation delete failed", zap.Error(result.Error))
		return serverError("delete postulation", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("postulation")
	}
	return nil
}
