package cli

import (
	"testing"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubView records lifecycle calls.
type stubView struct {
	id        ViewID
	title     string
	unmounted bool
	seen      []tea.Msg
}

func (s *stubView) Init() tea.Cmd { return nil }
func (s *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *stubView) View() string             { return s.title }
func (s *stubView) ID() ViewID               { return s.id }
func (s *stubView) Title() string            { return s.title }
func (s *stubView) ShortHelp() []key.Binding { return nil }
func (s *stubView) Unmount()                 { s.unmounted = true }

func TestAppModel_PushPopUnmounts(t *testing.T) {
	m := newAppModel(newTestApp(newFakeBackend(testUsers(), nil)), admin)

	top := &stubView{id: ViewDetail, title: "#1"}
	model, _ := m.Update(pushViewMsg{view: top})
	m = model.(appModel)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, ViewDetail, m.activeView().ID())

	model, _ = m.Update(popViewMsg{})
	m = model.(appModel)
	assert.Len(t, m.viewStack, 1)
	assert.True(t, top.unmounted)
}

func TestAppModel_PopKeepsBoard(t *testing.T) {
	m := newAppModel(newTestApp(newFakeBackend(testUsers(), nil)), admin)

	model, _ := m.Update(popViewMsg{})
	m = model.(appModel)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewBoard, m.activeView().ID())
	assert.False(t, m.viewStack[0].(*boardView).store.Closed())
}

func TestAppModel_BackgroundMessagesReachEveryView(t *testing.T) {
	m := newAppModel(newTestApp(newFakeBackend(testUsers(), nil)), admin)
	top := &stubView{id: ViewDetail}
	model, _ := m.Update(pushViewMsg{view: top})
	m = model.(appModel)

	model, _ = m.Update(boardLoadedMsg{incidents: []domain.Incident{incident(1, domain.StatusPending, "x", nil)}})
	m = model.(appModel)

	bv := m.viewStack[0].(*boardView)
	assert.Equal(t, 1, bv.store.Len())
	require.Len(t, top.seen, 1)
}

func TestAppModel_OtherMessagesGoToTopOnly(t *testing.T) {
	m := newAppModel(newTestApp(newFakeBackend(testUsers(), nil)), admin)
	top := &stubView{id: ViewDetail}
	model, _ := m.Update(pushViewMsg{view: top})
	m = model.(appModel)

	type other struct{}
	m.Update(other{})
	require.Len(t, top.seen, 1)
}

func TestAppModel_HeaderBreadcrumb(t *testing.T) {
	m := newAppModel(newTestApp(newFakeBackend(testUsers(), nil)), admin)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(appModel)
	model, _ = m.Update(pushViewMsg{view: &stubView{id: ViewNotifications, title: "Notificaciones"}})
	m = model.(appModel)

	view := m.View()
	assert.Contains(t, view, boardTitle+" › Notificaciones")
	assert.Contains(t, view, "esc: volver")
	assert.Contains(t, view, "q: salir")
}
