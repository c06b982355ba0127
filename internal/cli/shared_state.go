package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/incidentboard/internal/domain"
)

// SharedState holds context shared across all views via pointer. It is only
// touched from Update, so it needs no locking.
type SharedState struct {
	App *App

	// Viewer is fixed for the lifetime of the TUI.
	Viewer domain.User

	// Terminal dimensions
	Width  int
	Height int

	// Unread is the viewer's unread notification count shown in the header.
	Unread int

	users map[int64]domain.User
}

func newSharedState(app *App, viewer domain.User) *SharedState {
	s := &SharedState{
		App:    app,
		Viewer: viewer,
		users:  make(map[int64]domain.User),
	}
	s.RememberUser(viewer)
	return s
}

// CachedUser returns a user resolved earlier in this session.
func (s *SharedState) CachedUser(id int64) (domain.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// RememberUser caches u for card and detail rendering.
func (s *SharedState) RememberUser(u domain.User) {
	if u.ID != 0 {
		s.users[u.ID] = u
	}
}

// callContext bounds one backend call with the configured request timeout.
func (s *SharedState) callContext() (context.Context, context.CancelFunc) {
	timeout := s.App.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
