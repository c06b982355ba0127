package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// notificationsLoadedMsg carries the viewer's notifications.
type notificationsLoadedMsg struct {
	items []domain.Notification
	err   error
}

// notificationOpenedMsg reports marking a notification read and fetching
// its incident.
type notificationOpenedMsg struct {
	id       int64
	marked   bool
	incident *domain.Incident
	err      error
}

// notificationsView lists the viewer's notifications, unread first.
// Opening one marks it read and shows its incident.
type notificationsView struct {
	state   *SharedState
	items   []domain.Notification
	cursor  int
	loading bool
	err     error
}

func newNotificationsView(state *SharedState) *notificationsView {
	return &notificationsView{state: state, loading: true}
}

func (v *notificationsView) ID() ViewID    { return ViewNotifications }
func (v *notificationsView) Title() string { return "Notificaciones" }

func (v *notificationsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "mover")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "abrir")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	}
}

func (v *notificationsView) Init() tea.Cmd {
	return v.load()
}

func (v *notificationsView) load() tea.Cmd {
	state := v.state
	userID := state.Viewer.ID
	return func() tea.Msg {
		ctx, cancel := state.callContext()
		defer cancel()
		items, err := state.App.Backend.ListNotifications(ctx, userID)
		return notificationsLoadedMsg{items: items, err: err}
	}
}

func (v *notificationsView) open(n domain.Notification) tea.Cmd {
	state := v.state
	return func() tea.Msg {
		ctx, cancel := state.callContext()
		defer cancel()
		msg := notificationOpenedMsg{id: n.ID, marked: n.Read}
		if !n.Read {
			if err := state.App.Backend.MarkNotificationRead(ctx, n.ID); err != nil {
				msg.err = err
				return msg
			}
			msg.marked = true
		}
		msg.incident, msg.err = state.App.Backend.GetIncident(ctx, n.IncidentID)
		return msg
	}
}

func (v *notificationsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.items = msg.items
		domain.SortNotifications(v.items)
		v.state.Unread = domain.UnreadCount(v.items)
		if v.cursor >= len(v.items) {
			v.cursor = max(len(v.items)-1, 0)
		}
		return v, nil

	case notificationOpenedMsg:
		if msg.marked {
			for i := range v.items {
				if v.items[i].ID == msg.id {
					v.items[i].Read = true
				}
			}
			v.state.Unread = domain.UnreadCount(v.items)
		}
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		return v, pushView(newDetailView(v.state, *msg.incident))

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(v.items) {
				return v, v.open(v.items[v.cursor])
			}
		case "r":
			v.loading = true
			return v, v.load()
		}
	}
	return v, nil
}

func (v *notificationsView) View() string {
	if v.loading && len(v.items) == 0 {
		return "\n  " + formatter.Dim("Cargando notificaciones...")
	}

	var b strings.Builder
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n\n")
	}
	if len(v.items) == 0 {
		b.WriteString("  " + formatter.Dim("No tienes notificaciones.") + "\n")
		return b.String()
	}

	unread := domain.UnreadCount(v.items)
	b.WriteString("  " + formatter.Bold(fmt.Sprintf("%d sin leer", unread)) + "\n\n")
	for i, n := range v.items {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleHeader.Render("▸ ")
		}
		marker := formatter.Dim("○")
		text := formatter.Dim(n.Message)
		if !n.Read {
			marker = formatter.StylePurple.Render("●")
			text = formatter.Bold(n.Message)
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", cursor, marker, text, formatter.Dim(formatter.Date(n.CreatedAt))))
	}
	return b.String()
}
