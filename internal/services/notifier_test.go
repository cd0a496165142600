package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

func newDispatcher(t *testing.T) *Dispatcher {
	return NewDispatcher(newTestDB(t), zap.NewNop())
}

func TestDispatch_IdempotentOnExactPair(t *testing.T) {
	d := newDispatcher(t)
	userID := uuid.New()

	first, err := d.Dispatch(userID, "hello")
	require.NoError(t, err)
	second, err := d.Dispatch(userID, "hello")
	require.NoError(t, err)

	// The repeat returns the stored row untouched.
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, d.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDispatch_DifferentWordingIsNotDeduped(t *testing.T) {
	d := newDispatcher(t)
	userID := uuid.New()

	_, err := d.Dispatch(userID, "task moved to completed")
	require.NoError(t, err)
	_, err = d.Dispatch(userID, "task moved to completed!")
	require.NoError(t, err)

	var count int64
	require.NoError(t, d.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDispatch_SameMessageDifferentUsers(t *testing.T) {
	d := newDispatcher(t)

	_, err := d.Dispatch(uuid.New(), "hello")
	require.NoError(t, err)
	_, err = d.Dispatch(uuid.New(), "hello")
	require.NoError(t, err)

	var count int64
	require.NoError(t, d.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestListForUser_EmptyIsNotFound(t *testing.T) {
	d := newDispatcher(t)

	_, err := d.ListForUser(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForUser_RequiresUserID(t *testing.T) {
	d := newDispatcher(t)

	_, err := d.ListForUser(uuid.Nil)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListForUser_NewestFirst(t *testing.T) {
	d := newDispatcher(t)
	userID := uuid.New()

	// Insert with explicit timestamps so ordering doesn't depend on clock
	// resolution.
	old := models.Notification{UserID: userID, Message: "first"}
	require.NoError(t, d.db.Create(&old).Error)
	require.NoError(t, d.db.Model(&old).Update("created_at", old.CreatedAt.Add(-time.Second)).Error)
	_, err := d.Dispatch(userID, "second")
	require.NoError(t, err)

	list, err := d.ListForUser(userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)
}

func TestMarkRead(t *testing.T) {
	d := newDispatcher(t)
	userID := uuid.New()

	n, err := d.Dispatch(userID, "hello")
	require.NoError(t, err)
	assert.False(t, n.Read)

	read, err := d.MarkRead(n.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = d.MarkRead(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNotification(t *testing.T) {
	d := newDispatcher(t)

	n, err := d.Dispatch(uuid.New(), "hello")
	require.NoError(t, err)

	require.NoError(t, d.Delete(n.ID))
	assert.ErrorIs(t, d.Delete(n.ID), ErrNotFound)
}
