package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

// newTestDB opens a private in-memory database and migrates the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Postulation{},
		&models.Task{},
		&models.TaskAssignee{},
		&models.TaskComment{},
		&models.TimeEntry{},
		&models.TaskHistoryEntry{},
		&models.Notification{},
		&models.VolunteerProfile{},
		&models.ProjectHistoryEntry{},
		&models.Badge{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:  name,
		Email: fmt.Sprintf("%s-%s@example.org", name, uuid.NewString()[:8]),
		Role:  role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, name string) models.Project {
	t.Helper()
	project := models.Project{Name: name, Status: "active"}
	require.NoError(t, db.Create(&project).Error)
	return project
}

// notifierRecorder captures dispatched notifications without touching storage.
type notifierRecorder struct {
	dispatched []dispatchedNote
	err        error
}

type dispatchedNote struct {
	UserID  uuid.UUID
	Message string
}

func (r *notifierRecorder) Dispatch(userID uuid.UUID, message string) (*models.Notification, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.dispatched = append(r.dispatched, dispatchedNote{UserID: userID, Message: message})
	return &models.Notification{ID: uuid.New(), UserID: userID, Message: message}, nil
}

// messagesFor filters the recorded notifications for one recipient.
func (r *notifierRecorder) messagesFor(userID uuid.UUID) []string {
	var messages []string
	for _, d := range r.dispatched {
		if d.UserID == userID {
			messages = append(messages, d.Message)
		}
	}
	return messages
}
