package cli

import (
	"context"
	"sync"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/service"
)

type statusCall struct {
	id     int64
	status domain.Status
}

// fakeBackend is an in-memory service.Backend. Persistence Cmds run on
// driver goroutines, so every method locks.
type fakeBackend struct {
	mu            sync.Mutex
	incidents     []domain.Incident
	users         map[int64]domain.User
	notifications []domain.Notification

	failStatus map[int64]error
	failUsers  map[int64]error

	statusCalls []statusCall
	listCalls   int
}

var _ service.Backend = (*fakeBackend)(nil)

func newFakeBackend(users []domain.User, incidents []domain.Incident) *fakeBackend {
	f := &fakeBackend{
		incidents:  append([]domain.Incident(nil), incidents...),
		users:      make(map[int64]domain.User),
		failStatus: make(map[int64]error),
		failUsers:  make(map[int64]error),
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeBackend) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]domain.Incident(nil), f.incidents...), nil
}

func (f *fakeBackend) GetIncident(ctx context.Context, id int64) (*domain.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inc := range f.incidents {
		if inc.ID == id {
			out := inc
			return &out, nil
		}
	}
	return nil, service.ErrNotFound
}

func (f *fakeBackend) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, statusCall{id: id, status: status})
	if err := f.failStatus[id]; err != nil {
		return err
	}
	for i := range f.incidents {
		if f.incidents[i].ID == id {
			f.incidents[i].Status = status
			return nil
		}
	}
	return service.ErrNotFound
}

func (f *fakeBackend) CreateIncident(ctx context.Context, inc *domain.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var maxID int64
	for _, existing := range f.incidents {
		maxID = max(maxID, existing.ID)
	}
	inc.ID = maxID + 1
	f.incidents = append(f.incidents, *inc)
	return nil
}

func (f *fakeBackend) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failUsers[id]; err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &u, nil
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeBackend) CreateUser(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = int64(len(f.users) + 1)
	f.users[u.ID] = *u
	return nil
}

func (f *fakeBackend) ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	domain.SortNotifications(out)
	return out, nil
}

func (f *fakeBackend) MarkNotificationRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].Read = true
			return nil
		}
	}
	return service.ErrNotFound
}

func (f *fakeBackend) addIncident(inc domain.Incident) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incidents = append(f.incidents, inc)
}

func (f *fakeBackend) addNotification(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
}

func (f *fakeBackend) calls() []statusCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]statusCall(nil), f.statusCalls...)
}

func (f *fakeBackend) status(id int64) domain.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inc := range f.incidents {
		if inc.ID == id {
			return inc.Status
		}
	}
	return ""
}
