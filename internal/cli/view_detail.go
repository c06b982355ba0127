package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const unassignedText = "No asignado"

// detailAssigneeMsg carries the assignee of the incident being shown.
type detailAssigneeMsg struct {
	incidentID int64
	user       *domain.User
	err        error
}

// detailView shows every field of one incident in a scrollable pane.
type detailView struct {
	state    *SharedState
	incident domain.Incident

	assignee  *domain.User
	resolving bool

	vp viewport.Model
}

func newDetailView(state *SharedState, inc domain.Incident) *detailView {
	v := &detailView{
		state:    state,
		incident: inc,
		vp:       viewport.New(max(state.Width, 40), state.ContentHeight()),
	}
	if inc.AssigneeID != nil {
		if u, ok := state.CachedUser(*inc.AssigneeID); ok {
			v.assignee = &u
		} else {
			v.resolving = true
		}
	}
	v.vp.SetContent(v.render())
	return v
}

func (v *detailView) ID() ViewID    { return ViewDetail }
func (v *detailView) Title() string { return fmt.Sprintf("#%d", v.incident.ID) }

func (v *detailView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "desplazar")),
	}
}

func (v *detailView) Init() tea.Cmd {
	if !v.resolving {
		return nil
	}
	state := v.state
	id, incidentID := *v.incident.AssigneeID, v.incident.ID
	return func() tea.Msg {
		ctx, cancel := state.callContext()
		defer cancel()
		u, err := state.App.Backend.GetUser(ctx, id)
		return detailAssigneeMsg{incidentID: incidentID, user: u, err: err}
	}
}

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = max(msg.Width, 40)
		v.vp.Height = v.state.ContentHeight()
		v.vp.SetContent(v.render())
		return v, nil

	case detailAssigneeMsg:
		if msg.incidentID != v.incident.ID {
			return v, nil
		}
		v.resolving = false
		if msg.err == nil && msg.user != nil {
			v.assignee = msg.user
			v.state.RememberUser(*msg.user)
		}
		v.vp.SetContent(v.render())
		return v, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *detailView) View() string {
	return v.vp.View()
}

func (v *detailView) render() string {
	inc := v.incident
	area := inc.Area
	if inc.Module != "" {
		area += " / " + inc.Module
	}
	photo := inc.PhotoURL
	if photo == "" {
		photo = formatter.Dim("Sin foto")
	}

	fields := []string{
		formatter.Field("Área", area),
		formatter.Field("Estado", formatter.StatusPill(inc.Status)),
		formatter.Field("Prioridad", formatter.PriorityBadge(inc.Priority)),
		formatter.Field("Fecha", formatter.Date(inc.CreatedAt)),
		formatter.Field("Responsable", v.assigneeText()),
		formatter.Field("Foto", photo),
	}

	width := max(v.vp.Width-8, 30)
	desc := lipgloss.NewStyle().Width(width).Render(inc.Description)
	body := strings.Join(fields, "\n") + "\n\n" + formatter.Bold("Descripción") + "\n" + desc
	return formatter.RenderBox(fmt.Sprintf("Incidencia #%d", inc.ID), body)
}

func (v *detailView) assigneeText() string {
	switch {
	case v.incident.AssigneeID == nil:
		return unassignedText
	case v.assignee != nil:
		return fmt.Sprintf("%s <%s>", v.assignee.Name, v.assignee.Email)
	default:
		return loadingPlaceholder
	}
}
