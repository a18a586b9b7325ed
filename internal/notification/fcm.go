package notification

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/sandeepk26/orbis-backend/config"
)

// PushSender delivers a push notification to a set of device tokens.
type PushSender interface {
	Send(tokens []string, title, body string) error
}

// FCMChannel sends push notifications through Firebase Cloud Messaging.
// It degrades to a no-op when credentials are not configured, so the API
// works in development setups without firebase.
type FCMChannel struct {
	client *messaging.Client
	ctx    context.Context
}

func NewFCMChannel(cfg *config.Config) PushSender {
	ctx := context.Background()
	if cfg.FCMCredentialsPath == "" {
		log.Println("FCM_CREDENTIALS_PATH not set, push notifications disabled")
		return &FCMChannel{ctx: ctx}
	}

	opt := option.WithCredentialsFile(cfg.FCMCredentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Printf("firebase init failed: %v", err)
		return &FCMChannel{ctx: ctx}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("fcm client init failed: %v", err)
		return &FCMChannel{ctx: ctx}
	}

	log.Printf("fcm ready for project %s", cfg.FCMProjectID)
	return &FCMChannel{client: client, ctx: ctx}
}

func (f *FCMChannel) Send(tokens []string, title, body string) error {
	if f.client == nil || len(tokens) == 0 {
		return nil
	}
	if len(tokens) == 1 {
		return f.sendSingle(tokens[0], title, body)
	}
	return f.sendMulticast(tokens, title, body)
}

func (f *FCMChannel) sendSingle(token, title, body string) error {
	msg := &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: title, Body: body},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				DefaultSound: true,
				Priority:     messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	if _, err := f.client.Send(f.ctx, msg); err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	return nil
}

// sendMulticast batches tokens; FCM caps a multicast at 500 tokens.
func (f *FCMChannel) sendMulticast(tokens []string, title, body string) error {
	const batchSize = 500
	var failed int

	for i := 0; i < len(tokens); i += batchSize {
		end := i + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[i:end]

		msg := &messaging.MulticastMessage{
			Tokens:       batch,
			Notification: &messaging.Notification{Title: title, Body: body},
			Android:      &messaging.AndroidConfig{Priority: "high"},
		}
		resp, err := f.client.SendMulticast(f.ctx, msg)
		if err != nil {
			log.Printf("fcm multicast batch failed: %v", err)
			failed += len(batch)
			continue
		}
		failed += resp.FailureCount
	}

	if failed > 0 {
		return fmt.Errorf("fcm delivery failed for %d/%d tokens", failed, len(tokens))
	}
	return nil
}
