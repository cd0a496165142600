package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

// PushService mirrors stored notifications to Firebase Cloud Messaging.
// It degrades to a no-op when no service account is configured.
type PushService struct {
	client *messaging.Client
	db     *gorm.DB
	log    *zap.Logger
}

// NewPushService initializes FCM from a service-account file. A missing or
// broken credential never fails startup; push is simply disabled.
func NewPushService(serviceAccountPath string, db *gorm.DB, log *zap.Logger) *PushService {
	svc := &PushService{db: db, log: log}
	if serviceAccountPath == "" {
		log.Info("fcm disabled: no service account configured")
		return svc
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Warn("fcm disabled: firebase init failed", zap.Error(err))
		return svc
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Warn("fcm disabled: messaging client failed", zap.Error(err))
		return svc
	}

	svc.client = client
	log.Info("fcm push enabled")
	return svc
}

// SendToUser pushes a message to the user's registered device. No-op when
// push is disabled or the user has no token.
func (p *PushService) SendToUser(userID uuid.UUID, message string) {
	if p == nil || p.client == nil {
		return
	}

	var user models.User
	if err := p.db.Select("fcm_token").First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	if user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: "VolunteerHub",
			Body:  message,
		},
	}
	if _, err := p.client.Send(context.Background(), msg); err != nil {
		p.log.Warn("fcm send failed", zap.String("userId", userID.String()), zap.Error(err))
	}
}
