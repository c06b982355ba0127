package service

import (
	"context"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/repository"
)

type notificationService struct {
	notifications repository.NotificationRepo
}

func NewNotificationService(notifications repository.NotificationRepo) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, *n)
	}
	return out, nil
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, id int64) error {
	return s.notifications.MarkRead(ctx, id)
}
