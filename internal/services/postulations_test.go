package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

func newPostulationService(t *testing.T) (*PostulationService, *notifierRecorder) {
	db := newTestDB(t)
	recorder := &notifierRecorder{}
	return NewPostulationService(db, recorder, zap.NewNop()), recorder
}

func TestCreatePostulation(t *testing.T) {
	svc, _ := newPostulationService(t)
	user := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	project := seedProject(t, svc.db, "River Cleanup")

	p, err := svc.Create(models.CreatePostulationRequest{
		UserID:    user.ID,
		ProjectID: project.ID,
		Comments:  "available weekends",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostulationPending, p.Status)
	assert.False(t, p.ApplicationDate.IsZero())
	assert.Equal(t, "available weekends", p.Comments)
}

func TestCreatePostulation_DuplicateConflicts(t *testing.T) {
	svc, _ := newPostulationService(t)
	user := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	project := seedProject(t, svc.db, "River Cleanup")

	req := models.CreatePostulationRequest{UserID: user.ID, ProjectID: project.ID}
	first, err := svc.Create(req)
	require.NoError(t, err)

	_, err = svc.Create(req)
	assert.ErrorIs(t, err, ErrConflict)

	// Rejection does not free the slot; the pair stays taken.
	_, err = svc.UpdateStatus([]uuid.UUID{first.ID}, models.PostulationRejected)
	require.NoError(t, err)

	_, err = svc.Create(req)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreatePostulation_RequiresIDs(t *testing.T) {
	svc, _ := newPostulationService(t)

	_, err := svc.Create(models.CreatePostulationRequest{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdatePostulationStatus_AcceptNotifies(t *testing.T) {
	svc, recorder := newPostulationService(t)
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	ben := seedUser(t, svc.db, "Ben", models.RoleVolunteer)
	project := seedProject(t, svc.db, "River Cleanup")

	p1, err := svc.Create(models.CreatePostulationRequest{UserID: ana.ID, ProjectID: project.ID})
	require.NoError(t, err)
	p2, err := svc.Create(models.CreatePostulationRequest{UserID: ben.ID, ProjectID: project.ID})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus([]uuid.UUID{p1.ID, p2.ID}, models.PostulationAccepted)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	for _, p := range updated {
		assert.Equal(t, models.PostulationAccepted, p.Status)
	}

	require.Len(t, recorder.dispatched, 2)
	assert.Equal(t, []string{AcceptedMessage}, recorder.messagesFor(ana.ID))
	assert.Equal(t, []string{AcceptedMessage}, recorder.messagesFor(ben.ID))
}

func TestUpdatePostulationStatus_DispatchErrorAbortsBatch(t *testing.T) {
	svc, recorder := newPostulationService(t)
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	ben := seedUser(t, svc.db, "Ben", models.RoleVolunteer)
	project := seedProject(t, svc.db, "River Cleanup")

	p1, err := svc.Create(models.CreatePostulationRequest{UserID: ana.ID, ProjectID: project.ID})
	require.NoError(t, err)
	p2, err := svc.Create(models.CreatePostulationRequest{UserID: ben.ID, ProjectID: project.ID})
	require.NoError(t, err)

	recorder.err = errors.New("notification backend down")

	_, err = svc.UpdateStatus([]uuid.UUID{p1.ID, p2.ID}, models.PostulationAccepted)
	require.Error(t, err)

	// The item processed before the failure keeps its new status; the rest
	// of the batch is untouched.
	var accepted, pending int64
	require.NoError(t, svc.db.Model(&models.Postulation{}).
		Where("status = ?", models.PostulationAccepted).Count(&accepted).Error)
	require.NoError(t, svc.db.Model(&models.Postulation{}).
		Where("status = ?", models.PostulationPending).Count(&pending).Error)
	assert.EqualValues(t, 1, accepted)
	assert.EqualValues(t, 1, pending)
}

func TestUpdatePostulationStatus_RejectStaysSilent(t *testing.T) {
	svc, recorder := newPostulationService(t)
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	project := seedProject(t, svc.db, "River Cleanup")

	p, err := svc.Create(models.CreatePostulationRequest{UserID: ana.ID, ProjectID: project.ID})
	require.NoError(t, err)

	_, err = svc.UpdateStatus([]uuid.UUID{p.ID}, models.PostulationRejected)
	require.NoError(t, err)
	assert.Empty(t, recorder.dispatched)
}

func TestUpdatePostulationStatus_InvalidStatus(t *testing.T) {
	svc, _ := newPostulationService(t)

	// The enum check runs before any lookup, so even a bogus batch fails
	// with a validation error rather than NotFound.
	_, err := svc.UpdateStatus([]uuid.UUID{uuid.New()}, "approved")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdatePostulationStatus_UnknownIDs(t *testing.T) {
	svc, _ := newPostulationService(t)

	_, err := svc.UpdateStatus([]uuid.UUID{uuid.New()}, models.PostulationAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostulationsByUser(t *testing.T) {
	svc, _ := newPostulationService(t)
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	ben := seedUser(t, svc.db, "Ben", models.RoleVolunteer)
	project := seedProject(t, svc.db, "River Cleanup")

	_, err := svc.Create(models.CreatePostulationRequest{UserID: ana.ID, ProjectID: project.ID})
	require.NoError(t, err)
	_, err = svc.Create(models.CreatePostulationRequest{UserID: ben.ID, ProjectID: project.ID})
	require.NoError(t, err)

	mine, err := svc.ListByUser(ana.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Project)
	assert.Equal(t, "River Cleanup", mine[0].Project.Name)

	// An empty list is fine here, unlike the notification listing.
	none, err := svc.ListByUser(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeletePostulation(t *testing.T) {
	svc, _ := newPostulationService(t)
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	project := seedProject(t, svc.db, "River Cleanup")

	p, err := svc.Create(models.CreatePostulationRequest{UserID: ana.ID, ProjectID: project.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(p.ID))
	assert.ErrorIs(t, svc.Delete(p.ID), ErrNotFound)
}
