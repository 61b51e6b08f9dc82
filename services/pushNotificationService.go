package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/PrayInVerses/initializers"
	"github.com/PrayInVerses/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog/log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const fcmSendTimeout = 30 * time.Second

type PushNotificationService struct {
	fcmClient *messaging.Client
}

type NotificationPayload struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

var pushService *PushNotificationService

// InitPushNotificationService connects to Firebase Cloud Messaging. The
// service stays unavailable when Firebase cannot be initialized.
func InitPushNotificationService() {
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")

	var app *firebase.App
	var err error

	if serviceAccountPath != "" {
		opt := option.WithCredentialsFile(serviceAccountPath)
		app, err = firebase.NewApp(context.Background(), nil, opt)
	} else {
		// Application Default Credentials
		app, err = firebase.NewApp(context.Background(), nil)
	}
	if err != nil {
		log.Warn().Err(err).Msg("push notifications disabled: firebase app unavailable")
		return
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("push notifications disabled: messaging client unavailable")
		return
	}

	pushService = &PushNotificationService{fcmClient: client}
	log.Info().Msg("push notification service initialized with FCM")
}

func GetPushNotificationService() *PushNotificationService {
	return pushService
}

func (s *PushNotificationService) SendNotificationToUser(userID int, payload NotificationPayload) error {
	var tokens []models.PushToken
	err := initializers.DB.From("user_push_tokens").
		Where(goqu.C("user_profile_id").Eq(userID)).
		ScanStructs(&tokens)
	if err != nil {
		return fmt.Errorf("failed to get push tokens for user %d: %w", userID, err)
	}

	if len(tokens) == 0 {
		return fmt.Errorf("no push tokens found for user %d", userID)
	}

	// Continue with other tokens even if one fails
	for _, token := range tokens {
		if err := s.sendToToken(token, payload); err != nil {
			log.Warn().Err(err).Int("user_profile_id", userID).Str("platform", token.Platform).Msg("failed to send push notification")
		}
	}

	return nil
}

func (s *PushNotificationService) SendNotificationToUsers(userIDs []int, payload NotificationPayload) error {
	failed := 0

	for _, userID := range userIDs {
		if err := s.SendNotificationToUser(userID, payload); err != nil {
			failed++
			log.Warn().Err(err).Int("user_profile_id", userID).Msg("failed to notify user")
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to send notifications to %d users", failed)
	}

	return nil
}

func (s *PushNotificationService) sendToToken(pushToken models.PushToken, payload NotificationPayload) error {
	if s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Token: pushToken.PushToken,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	switch pushToken.Platform {
	case "ios":
		message.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: payload.Title,
						Body:  payload.Body,
					},
					Sound: "default",
				},
			},
		}
		if payload.Priority == "high" {
			message.APNS.Headers = map[string]string{"apns-priority": "10"}
		}
	case "android":
		message.Android = &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Title: payload.Title,
				Body:  payload.Body,
			},
			Priority: "normal",
		}
		if payload.Priority == "high" {
			message.Android.Priority = "high"
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), fcmSendTimeout)
	defer cancel()

	messageID, err := s.fcmClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Debug().Str("message_id", messageID).Msg("sent FCM notification")
	return nil
}
