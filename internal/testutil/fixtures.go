package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/incidentboard/internal/domain"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func Inactive() UserOption {
	return func(u *domain.User) {
		u.State = domain.UserInactive
	}
}

// NewTestUser returns an active reader with a unique email.
func NewTestUser(name string, opts ...UserOption) *domain.User {
	n := testEmailCounter.Add(1)
	u := &domain.User{
		Name:  name,
		Email: fmt.Sprintf("user%d@example.test", n),
		Role:  domain.RoleReader,
		State: domain.UserActive,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Incident options
type IncidentOption func(*domain.Incident)

func WithStatus(s domain.Status) IncidentOption {
	return func(i *domain.Incident) {
		i.Status = s
	}
}

func WithPriority(p domain.Priority) IncidentOption {
	return func(i *domain.Incident) {
		i.Priority = p
	}
}

func WithAssignee(userID int64) IncidentOption {
	return func(i *domain.Incident) {
		i.AssigneeID = &userID
	}
}

func WithArea(area, module string) IncidentOption {
	return func(i *domain.Incident) {
		i.Area = area
		i.Module = module
	}
}

func WithCreatedAt(t time.Time) IncidentOption {
	return func(i *domain.Incident) {
		i.CreatedAt = t
		i.UpdatedAt = t
	}
}

// NewTestIncident returns a pending medium-priority incident.
func NewTestIncident(description string, opts ...IncidentOption) *domain.Incident {
	now := time.Now().UTC()
	i := &domain.Incident{
		Status:      domain.StatusPending,
		Priority:    domain.PriorityMedium,
		Area:        "Planta",
		Module:      "Producción",
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}
