package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	boardTitle          = "Tablero de Seguimiento de Incidencias"
	notificationsPoller = "notifications"
	defaultPollInterval = 60 * time.Second
)

// unreadLoadedMsg carries the unread notification count for the header.
type unreadLoadedMsg struct {
	count int
	err   error
}

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack and the notification poller.
type appModel struct {
	state         *SharedState
	viewStack     []View
	notifications *poller
	quitting      bool
}

func newAppModel(app *App, viewer domain.User) appModel {
	state := newSharedState(app, viewer)
	interval := app.Config.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return appModel{
		state:         state,
		viewStack:     []View{newBoardView(state)},
		notifications: newPoller(notificationsPoller, interval),
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) loadUnread() tea.Cmd {
	state := m.state
	userID := state.Viewer.ID
	return func() tea.Msg {
		ctx, cancel := state.callContext()
		defer cancel()
		items, err := state.App.Backend.ListNotifications(ctx, userID)
		return unreadLoadedMsg{count: domain.UnreadCount(items), err: err}
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	cmds = append(cmds, m.notifications.Start(), m.loadUnread())
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Navigation messages from views
	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.pop()
		return m, nil

	case refreshViewMsg:
		// Broadcast so underlying views reload too.
		return m, m.broadcast(msg)

	case unreadLoadedMsg:
		if msg.err != nil {
			m.state.App.logger().Debug("notification poll failed", "error", msg.err.Error())
			return m, nil
		}
		m.state.Unread = msg.count
		return m, nil

	case pollTickMsg:
		if ok, next := m.notifications.Accept(msg); ok {
			return m, tea.Batch(m.loadUnread(), next)
		}
		return m, m.broadcast(msg)

	case backgroundMsg:
		return m, m.broadcast(msg)
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	v := m.activeView()
	if c, ok := v.(escCapturer); ok && c.CapturesEsc() && msg.Type == tea.KeyEsc {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case msg.String() == "q":
		return m.quit()

	case msg.Type == tea.KeyEsc:
		// Pop view stack (go back)
		m.pop()
		return m, nil
	}

	if v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

// broadcast delivers msg to every view on the stack, bottom to top.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// pop removes the top view, keeping the board at the bottom.
func (m *appModel) pop() {
	if len(m.viewStack) <= 1 {
		return
	}
	unmount(m.viewStack[len(m.viewStack)-1])
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.notifications.Stop()
	for i := len(m.viewStack) - 1; i >= 0; i-- {
		unmount(m.viewStack[i])
	}
	return m, tea.Quit
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Bold(true).Render(boardTitle)

	// Breadcrumb from view stack, skipping the board itself.
	var crumbs []string
	for _, v := range m.viewStack[min(1, len(m.viewStack)):] {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	viewer := m.state.Viewer
	header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(viewer.Name) +
		formatter.Dim(" · "+string(viewer.Role)+"]")

	badge := formatter.Dim("✉ 0")
	if m.state.Unread > 0 {
		badge = formatter.StyleYellow.Bold(true).Render(fmt.Sprintf("✉ %d", m.state.Unread))
	}
	header += "  " + badge

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: volver"))
	}
	hints = append(hints, formatter.Dim("q: salir"))

	bar := strings.Join(hints, "  ")
	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

// runBoard starts the TUI for viewer and blocks until the user quits.
func runBoard(ctx context.Context, app *App, viewer domain.User) error {
	p := tea.NewProgram(newAppModel(app, viewer), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
