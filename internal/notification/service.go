package notification

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Service interface {
	List(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]InAppNotification, error)
	MarkAsRead(ctx context.Context, id, userID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)

	// Notify stores an in-app notification and best-effort pushes it to the
	// user's registered devices.
	Notify(ctx context.Context, userID uint, orgID *uint, title, message, category string) error

	RegisterDeviceToken(ctx context.Context, userID uint, token, deviceType string) error
	RemoveDeviceToken(ctx context.Context, userID uint, token string) error
}

type service struct {
	repo Repository
	push PushSender
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, push: NewFCMChannel(cfg)}
}

// NewServiceWithPush is used where the push channel is injected, e.g. tests.
func NewServiceWithPush(repo Repository, push PushSender) Service {
	return &service{repo: repo, push: push}
}

func (s *service) List(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]InAppNotification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListInAppByUser(ctx, userID, unreadOnly, limit)
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uint) error {
	err := s.repo.MarkInAppAsRead(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("notification not found")
	}
	return err
}

func (s *service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) Notify(ctx context.Context, userID uint, orgID *uint, title, message, category string) error {
	n := &InAppNotification{
		UserID:         userID,
		OrganizationID: orgID,
		Title:          title,
		Message:        message,
		Category:       category,
	}
	if err := s.repo.CreateInApp(ctx, n); err != nil {
		return err
	}

	tokens, err := s.repo.GetUserDeviceTokens(ctx, userID)
	if err != nil {
		log.Printf("device token lookup failed for user %d: %v", userID, err)
		return nil
	}
	if err := s.push.Send(tokens, title, message); err != nil {
		log.Printf("push delivery failed for user %d: %v", userID, err)
	}
	return nil
}

func (s *service) RegisterDeviceToken(ctx context.Context, userID uint, token, deviceType string) error {
	if token == "" {
		return apperror.Validation("device_token is required")
	}
	return s.repo.SaveDeviceToken(ctx, &FCMDeviceToken{
		UserID:      userID,
		DeviceToken: token,
		DeviceType:  deviceType,
	})
}

func (s *service) RemoveDeviceToken(ctx context.Context, userID uint, token string) error {
	if token == "" {
		return apperror.Validation("device_token is required")
	}
	return s.repo.RemoveDeviceToken(ctx, userID, token)
}
