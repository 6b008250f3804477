package services

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/shutterfolk/backend/internal/repositories"
)

// PushService delivers best-effort FCM nudges for new in-app notifications.
// No-op when Firebase messaging is not configured.
type PushService struct {
	client   *messaging.Client
	userRepo repositories.UserRepository
}

// NewPushService creates a new PushService. client may be nil (push disabled).
func NewPushService(client *messaging.Client, userRepo repositories.UserRepository) *PushService {
	return &PushService{client: client, userRepo: userRepo}
}

// SendToUser sends a push notification to a user's registered device.
// No-op if push is not configured or the user has no device token. Failures
// are logged and swallowed.
func (p *PushService) SendToUser(ctx context.Context, userID uint, title, body string, data map[string]string) {
	if p == nil || p.client == nil {
		return
	}

	user, err := p.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		log.Printf("FCM: user %d lookup failed: %v", userID, err)
		return
	}
	if user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		log.Printf("FCM: send to user %d failed: %v", userID, err)
	}
}
