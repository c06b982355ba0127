package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/incidentboard/internal/config"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/service"
	"github.com/alexanderramin/incidentboard/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
)

// TestDriver wraps teatest.Driver with board-specific inspection methods.
// It provides access to appModel internals (view stack, shared state,
// the board's store) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver for viewer over app.
// It constructs the appModel, sets terminal size, and drains Init()
// (which loads the board from the app's backend).
func NewTestDriver(t *testing.T, app *App, viewer domain.User, opts ...teatest.Option) *TestDriver {
	t.Helper()

	m := newAppModel(app, viewer)
	opts = append([]teatest.Option{teatest.WithSize(120, 40)}, opts...)
	d := teatest.New(t, m, opts...)
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func newTestApp(backend service.Backend) *App {
	return &App{
		Backend: backend,
		Config: config.Config{
			PollInterval:   time.Minute,
			RequestTimeout: time.Second,
		},
	}
}

// holdSettles parks persistence results until the test releases them.
func holdSettles() teatest.Option {
	return teatest.WithHold(func(msg tea.Msg) bool {
		_, ok := msg.(transitionSettledMsg)
		return ok
	})
}

// ── board-specific inspection ────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// Board returns the board view at the bottom of the stack.
func (d *TestDriver) Board() *boardView {
	return d.appModel().viewStack[0].(*boardView)
}

// StatusOf returns the status the board currently shows for id.
func (d *TestDriver) StatusOf(id int64) domain.Status {
	inc, ok := d.Board().store.Get(id)
	if !ok {
		return ""
	}
	return inc.Status
}

// Column returns the ids shown under status, top to bottom.
func (d *TestDriver) Column(status domain.Status) []int64 {
	var ids []int64
	for _, inc := range d.Board().partition().Column(status) {
		ids = append(ids, inc.ID)
	}
	return ids
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
