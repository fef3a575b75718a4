package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"driveshare-backend/internal/logger"
)

type fcmPublisher struct {
	client *messaging.Client
}

// NewFCMPublisher builds the Firebase Cloud Messaging publisher. With an
// empty credentials file path it returns a no-op publisher so the push
// channel can be left unconfigured.
func NewFCMPublisher(ctx context.Context, credentialsFile string) (RealtimePublisher, error) {
	if credentialsFile == "" {
		logger.Info("push delivery disabled: no FCM credentials configured")
		return &noopPublisher{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}
	return &fcmPublisher{client: client}, nil
}

func (p *fcmPublisher) Publish(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if deviceToken == "" {
		return nil
	}
	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := p.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	return nil
}

type noopPublisher struct{}

func (p *noopPublisher) Publish(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	return nil
}
