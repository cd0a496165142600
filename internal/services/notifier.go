package services

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

// Notifier is the side-effect interface the lifecycle services depend on.
// Keeping it narrow lets tests swap in a recorder.
type Notifier interface {
	Dispatch(userID uuid.UUID, message string) (*models.Notification, error)
}

// Broadcaster delivers a created notification to live listeners (the
// websocket hub). Optional.
type Broadcaster interface {
	Publish(userID uuid.UUID, n models.Notification)
}

// Dispatcher creates and serves notifications. Dispatch is idempotent on
// the exact (userId, message) pair: a change in message wording stores a
// new row.
type Dispatcher struct {
	db     *gorm.DB
	log    *zap.Logger
	push   *PushService
	events Broadcaster
}

func NewDispatcher(db *gorm.DB, log *zap.Logger) *Dispatcher {
	return &Dispatcher{db: db, log: log}
}

// WithPush attaches the optional FCM mirror.
func (d *Dispatcher) WithPush(p *PushService) *Dispatcher {
	d.push = p
	return d
}

// WithBroadcaster attaches the optional live-stream sink.
func (d *Dispatcher) WithBroadcaster(b Broadcaster) *Dispatcher {
	d.events = b
	return d
}

// Dispatch stores a notification unless an identical one already exists,
// in which case the existing row is returned untouched.
func (d *Dispatcher) Dispatch(userID uuid.UUID, message string) (*models.Notification, error) {
	var existing models.Notification
	err := d.db.Where("user_id = ? AND message = ?", userID, message).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.Error("notification lookup failed", zap.String("userId", userID.String()), zap.Error(err))
		return nil, serverError("dispatch notification", err)
	}

	n := models.Notification{UserID: userID, Message: message}
	if err := d.db.Create(&n).Error; err != nil {
		d.log.Error("notification create failed", zap.String("userId", userID.String()), zap.Error(err))
		return nil, serverError("dispatch notification", err)
	}

	if d.events != nil {
		d.events.Publish(userID, n)
	}
	if d.push != nil {
		go d.push.SendToUser(userID, message)
	}
	return &n, nil
}

// ListForUser returns the user's notifications, newest first. An empty
// result is reported as not found for API compatibility.
func (d *Dispatcher) ListForUser(userID uuid.UUID) ([]models.Notification, error) {
	if userID == uuid.Nil {
		return nil, invalid("user id is required", "userId")
	}

	var notifications []models.Notification
	if err := d.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		d.log.Error("notification list failed", zap.String("userId", userID.String()), zap.Error(err))
		return nil, serverError("list notifications", err)
	}
	if len(notifications) == 0 {
		return nil, notFound("notifications")
	}
	return notifications, nil
}

// MarkRead flags a notification as read.
func (d *Dispatcher) MarkRead(id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	if err := d.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("notification")
		}
		return nil, serverError("load notification", err)
	}

	n.Read = true
	if err := d.db.Save(&n).Error; err != nil {
		d.log.Error("notification update failed", zap.String("id", id.String()), zap.Error(err))
		return nil, serverError("mark notification read", err)
	}
	return &n, nil
}

// Delete removes a notification permanently.
func (d *Dispatcher) Delete(id uuid.UUID) error {
	result := d.db.Delete(&models.Notification{}, "id = ?", id)
	if result.Error != nil {
		d.log.Error("notification delete failed", zap.String("id", id.String()), zap.Error(result.Error))
		return serverError("delete notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("notification")
	}
	return nil
}
