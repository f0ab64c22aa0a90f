package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/repository"
)

type NotificationService interface {
	GetNotificationsByChild(ctx context.Context, childID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	logger           zerolog.Logger
}

func NewNotificationService(notificationRepo repository.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (s *notificationService) GetNotificationsByChild(ctx context.Context, childID string) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.GetByChildID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	updated, err := s.notificationRepo.MarkRead(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}
