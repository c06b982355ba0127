package repository

import (
	"context"

	"github.com/alexanderramin/incidentboard/internal/domain"
)

type IncidentRepo interface {
	Create(ctx context.Context, inc *domain.Incident) error
	GetByID(ctx context.Context, id int64) (*domain.Incident, error)
	List(ctx context.Context) ([]*domain.Incident, error)
	ListByAssignee(ctx context.Context, userID int64) ([]*domain.Incident, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}
