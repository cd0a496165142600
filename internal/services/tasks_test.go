package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

func newTaskService(t *testing.T) (*TaskService, *notifierRecorder) {
	db := newTestDB(t)
	recorder := &notifierRecorder{}
	return NewTaskService(db, recorder, zap.NewNop()), recorder
}

func strptr(s string) *string { return &s }

func TestCreateTask_Defaults(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")

	task, err := svc.Create(models.CreateTaskRequest{
		Title:       "Collect supplies",
		Description: "Gloves and bags for the shore team",
		ProjectID:   project.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, 1.0, task.EstimatedHours)
	assert.Equal(t, models.QualityPending, task.CompletionQuality)
}

func TestCreateTask_Validation(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")

	var verr *ValidationError

	_, err := svc.Create(models.CreateTaskRequest{Description: "no title", ProjectID: project.ID})
	assert.ErrorAs(t, err, &verr)

	past := time.Now().Add(-24 * time.Hour)
	_, err = svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID, DueDate: &past,
	})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID, EstimatedHours: 0.25,
	})
	assert.ErrorAs(t, err, &verr)
}

func TestCreateTask_DeduplicatesAssignees(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)

	task, err := svc.Create(models.CreateTaskRequest{
		Title:       "t",
		Description: "d",
		ProjectID:   project.ID,
		AssignedTo:  []uuid.UUID{ana.ID, ana.ID, uuid.Nil},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ana.ID}, task.AssigneeIDs())
}

func TestUpdateTask_StatusChangeAuditsAndNotifies(t *testing.T) {
	svc, recorder := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	ben := seedUser(t, svc.db, "Ben", models.RoleVolunteer)

	task, err := svc.Create(models.CreateTaskRequest{
		Title:       "Collect supplies",
		Description: "d",
		ProjectID:   project.ID,
		AssignedTo:  []uuid.UUID{ana.ID, ben.ID},
	})
	require.NoError(t, err)

	_, err = svc.Update(task.ID, models.UpdateTaskRequest{Status: strptr(models.TaskCompleted)})
	require.NoError(t, err)

	history, err := svc.GetHistory(task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.TaskCompleted, history[0].Status)

	want := StatusChangeMessage("Collect supplies", models.TaskCompleted)
	assert.Contains(t, want, `"Collect supplies"`)
	assert.Contains(t, want, `"completed"`)
	require.Len(t, recorder.dispatched, 2)
	assert.Equal(t, []string{want}, recorder.messagesFor(ana.ID))
	assert.Equal(t, []string{want}, recorder.messagesFor(ben.ID))
}

func TestUpdateTask_UnchangedStatusIsSilent(t *testing.T) {
	svc, recorder := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
		AssignedTo: []uuid.UUID{ana.ID},
	})
	require.NoError(t, err)

	// Same status plus an unrelated field change: no audit row, no
	// notification.
	_, err = svc.Update(task.ID, models.UpdateTaskRequest{
		Status:      strptr(models.TaskPending),
		Description: strptr("updated description"),
	})
	require.NoError(t, err)

	history, err := svc.GetHistory(task.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, recorder.dispatched)
}

func TestUpdateTask_HistoryIsAppendOnly(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
	})
	require.NoError(t, err)

	for _, status := range []string{models.TaskInProgress, models.TaskCompleted, models.TaskArchived} {
		_, err = svc.Update(task.ID, models.UpdateTaskRequest{Status: strptr(status)})
		require.NoError(t, err)
	}

	history, err := svc.GetHistory(task.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.TaskInProgress, history[0].Status)
	assert.Equal(t, models.TaskCompleted, history[1].Status)
	assert.Equal(t, models.TaskArchived, history[2].Status)
}

func TestUpdateTask_InvalidStatus(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
	})
	require.NoError(t, err)

	_, err = svc.Update(task.ID, models.UpdateTaskRequest{Status: strptr("done")})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGetHistory_TaskMustExist(t *testing.T) {
	svc, _ := newTaskService(t)

	_, err := svc.GetHistory(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTasksByProject_EmptyIsNotFound(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")

	_, err := svc.ListByProject(project.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
	})
	require.NoError(t, err)

	tasks, err := svc.ListByProject(project.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestListAssignedTasks(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	ben := seedUser(t, svc.db, "Ben", models.RoleVolunteer)

	for i := 0; i < 2; i++ {
		_, err := svc.Create(models.CreateTaskRequest{
			Title: fmt.Sprintf("task %d", i), Description: "d", ProjectID: project.ID,
			AssignedTo: []uuid.UUID{ana.ID},
		})
		require.NoError(t, err)
	}

	mine, err := svc.ListAssignedTo(ana.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := svc.ListAssignedTo(ben.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestDeleteTask(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
		AssignedTo: []uuid.UUID{ana.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(task.ID))
	assert.ErrorIs(t, svc.Delete(task.ID), ErrNotFound)

	var count int64
	require.NoError(t, svc.db.Model(&models.TaskAssignee{}).Where("task_id = ?", task.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogTime_AccumulatesTotal(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
	})
	require.NoError(t, err)

	_, err = svc.LogTime(task.ID, ana.ID, models.LogTimeRequest{Hours: 2, Description: "morning shift"})
	require.NoError(t, err)
	updated, err := svc.LogTime(task.ID, ana.ID, models.LogTimeRequest{Hours: 1.5, Description: "afternoon shift"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, updated.TotalHoursLogged)
}

func TestLogTime_HourBounds(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
	})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = svc.LogTime(task.ID, ana.ID, models.LogTimeRequest{Hours: 0.1, Description: "too short"})
	assert.ErrorAs(t, err, &verr)
	_, err = svc.LogTime(task.ID, ana.ID, models.LogTimeRequest{Hours: 25, Description: "too long"})
	assert.ErrorAs(t, err, &verr)
}

func TestApproveTimeEntry_RoleGate(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)
	lead := seedUser(t, svc.db, "Lead", models.RoleCoordinator)

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
	})
	require.NoError(t, err)
	logged, err := svc.LogTime(task.ID, ana.ID, models.LogTimeRequest{Hours: 2, Description: "shift"})
	require.NoError(t, err)
	entryID := logged.TimeEntries[0].ID

	_, err = svc.ApproveTimeEntry(models.RoleVolunteer, task.ID, entryID, ana.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	entry, err := svc.ApproveTimeEntry(models.RoleCoordinator, task.ID, entryID, lead.ID)
	require.NoError(t, err)
	assert.True(t, entry.Approved)
	require.NotNil(t, entry.ApprovedBy)
	assert.Equal(t, lead.ID, *entry.ApprovedBy)
	assert.NotNil(t, entry.ApprovalDate)
}

func TestAddComment(t *testing.T) {
	svc, _ := newTaskService(t)
	project := seedProject(t, svc.db, "River Cleanup")
	ana := seedUser(t, svc.db, "Ana", models.RoleVolunteer)

	task, err := svc.Create(models.CreateTaskRequest{
		Title: "t", Description: "d", ProjectID: project.ID,
	})
	require.NoError(t, err)

	comment, err := svc.AddComment(task.ID, ana.ID, models.AddTaskCommentRequest{Comment: "on my way"})
	require.NoError(t, err)
	assert.Equal(t, "on my way", comment.Comment)
	assert.False(t, comment.Date.IsZero())

	_, err = svc.AddComment(uuid.New(), ana.ID, models.AddTaskCommentRequest{Comment: "lost"})
	assert.ErrorIs(t, err, ErrNotFound)
}
