package service

import (
	"context"

	"github.com/alexanderramin/incidentboard/internal/domain"
)

type IncidentService interface {
	ListIncidents(ctx context.Context) ([]domain.Incident, error)
	GetIncident(ctx context.Context, id int64) (*domain.Incident, error)
	// UpdateStatus writes a new status. When the status changes and the
	// incident has an assignee, the assignee is notified in the same
	// transaction.
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	CreateIncident(ctx context.Context, inc *domain.Incident) error
}

type UserService interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
}

type NotificationService interface {
	// ListNotifications returns unread notifications first, newest first
	// within each group.
	ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

// Backend is everything the board and the server need from a data source.
// The local SQLite services and the HTTP client both satisfy it.
type Backend interface {
	IncidentService
	UserService
	NotificationService
}
