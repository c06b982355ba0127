package board

import (
	"context"

	"github.com/alexanderramin/incidentboard/internal/domain"
)

// IncidentFetcher returns the incidents a board starts from.
type IncidentFetcher interface {
	ListIncidents(ctx context.Context) ([]domain.Incident, error)
}

// StatusPersister stores a status change remotely. One call per transition.
type StatusPersister interface {
	UpdateStatus(ctx context.Context, incidentID int64, status domain.Status) error
}

// UserDirectory resolves assignee ids for card rendering.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}
