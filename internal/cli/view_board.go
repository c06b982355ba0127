package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/incidentboard/internal/board"
	"github.com/alexanderramin/incidentboard/internal/cli/formatter"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	boardRefreshPoller = "board-refresh"

	cardSummaryLen = 70
	// cardHeight is four content lines plus the border.
	cardHeight = 6
	noticeTTL  = 6 * time.Second

	loadingPlaceholder = "Cargando..."
	emptyColumnText    = "No hay tareas aquí."
)

// boardLoadedMsg carries the incident list scoped to the viewer.
type boardLoadedMsg struct {
	incidents []domain.Incident
	err       error
}

// userResolvedMsg carries an assignee lookup for card rendering.
type userResolvedMsg struct {
	id   int64
	user *domain.User
	err  error
}

// transitionSettledMsg is the result of one persistence call.
type transitionSettledMsg struct {
	outcome board.Outcome
}

// noticeExpiredMsg hides a notice unless a newer one replaced it.
type noticeExpiredMsg struct{ seq int }

func (boardLoadedMsg) background()       {}
func (userResolvedMsg) background()      {}
func (transitionSettledMsg) background() {}
func (noticeExpiredMsg) background()     {}

// carry is a card picked up with space and not yet dropped.
type carry struct {
	id   int64
	from domain.Status
}

// boardView renders the incident columns and turns key gestures into
// transition intents.
//
// The store is owned by this view and only touched from Update. A move is
// applied to the store before the persistence Cmd is returned, so the card
// is drawn in its new column before the call goes out.
type boardView struct {
	state   *SharedState
	store   *board.Store
	ctrl    *board.Controller
	refresh *poller

	loading bool
	err     error

	col int // selected column, index into domain.Statuses
	row int // selected card, or drop position while carrying

	carrying *carry

	notice    *board.Notice
	noticeSeq int

	// assignee lookups in flight and those that failed since the last load
	resolving map[int64]bool
	failed    map[int64]bool

	proj        board.Partition
	projVersion uint64
}

func newBoardView(state *SharedState) *boardView {
	app := state.App
	store := board.NewStore(nil)
	return &boardView{
		state:     state,
		store:     store,
		ctrl:      board.NewController(store, state.Viewer.Viewer(), app.Backend, board.WithLogger(app.logger())),
		refresh:   newPoller(boardRefreshPoller, app.Config.RefreshInterval),
		loading:   true,
		resolving: make(map[int64]bool),
		failed:    make(map[int64]bool),
	}
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Tablero" }

func (v *boardView) ShortHelp() []key.Binding {
	if v.carrying != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←→", "columna")),
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "posición")),
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "soltar")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
		}
	}
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←→", "columna")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "tarjeta")),
	}
	if v.ctrl.CanTransition() {
		hints = append(hints,
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mover")),
			key.NewBinding(key.WithKeys("H", "L"), key.WithHelp("H/L", "mover a columna")),
		)
	}
	return append(hints,
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detalle")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notificaciones")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	)
}

func (v *boardView) Init() tea.Cmd {
	return tea.Batch(v.load(), v.refresh.Start())
}

// Unmount closes the store so completions arriving later are ignored.
func (v *boardView) Unmount() {
	v.store.Close()
	v.refresh.Stop()
}

func (v *boardView) CapturesEsc() bool { return v.carrying != nil }

func (v *boardView) load() tea.Cmd {
	state := v.state
	viewer := state.Viewer.Viewer()
	return func() tea.Msg {
		ctx, cancel := state.callContext()
		defer cancel()
		incidents, err := board.Load(ctx, state.App.Backend, viewer)
		return boardLoadedMsg{incidents: incidents, err: err}
	}
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			v.state.App.logger().Warn("board load failed", "error", msg.err.Error())
			return v, nil
		}
		v.err = nil
		v.failed = make(map[int64]bool)
		v.store.Replace(msg.incidents)
		v.clamp()
		return v, v.resolveAssignees()

	case userResolvedMsg:
		delete(v.resolving, msg.id)
		if msg.err != nil || msg.user == nil {
			v.failed[msg.id] = true
			return v, nil
		}
		v.state.RememberUser(*msg.user)
		return v, nil

	case transitionSettledMsg:
		err := v.ctrl.Settle(msg.outcome)
		v.clamp()
		return v, v.showNotice(err)

	case noticeExpiredMsg:
		if msg.seq == v.noticeSeq {
			v.notice = nil
		}
		return v, nil

	case pollTickMsg:
		if ok, next := v.refresh.Accept(msg); ok {
			return v, tea.Batch(v.load(), next)
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		if v.carrying != nil {
			return v, v.handleCarryKey(msg)
		}
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *boardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		v.moveColumn(-1)
	case "right", "l":
		v.moveColumn(1)
	case "up", "k":
		if v.row > 0 {
			v.row--
		}
	case "down", "j":
		if v.row < len(v.column(v.col))-1 {
			v.row++
		}
	case " ", "space":
		inc, ok := v.selected()
		if !ok || !v.ctrl.CanTransition() {
			return nil
		}
		// Among the other cards the picked one sits before the card that
		// followed it, which is the same row.
		v.carrying = &carry{id: inc.ID, from: inc.Status}
	case "L", "shift+right":
		return v.quickMove(1)
	case "H", "shift+left":
		return v.quickMove(-1)
	case "enter":
		if inc, ok := v.selected(); ok {
			return pushView(newDetailView(v.state, inc))
		}
	case "n":
		return pushView(newNotificationsView(v.state))
	case "r":
		v.loading = true
		return v.load()
	}
	return nil
}

func (v *boardView) handleCarryKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		v.moveColumn(-1)
	case "right", "l":
		v.moveColumn(1)
	case "up", "k":
		if v.row > 0 {
			v.row--
		}
	case "down", "j":
		if v.row < len(v.others(v.col)) {
			v.row++
		}
	case " ", "space", "enter":
		return v.drop()
	case "esc":
		id := v.carrying.id
		v.carrying = nil
		v.focus(id)
	}
	return nil
}

// drop turns the carried card and the current drop position into an
// intent.
func (v *boardView) drop() tea.Cmd {
	c := v.carrying
	v.carrying = nil
	intent := board.Intent{
		IncidentID: c.id,
		From:       c.from,
		To:         domain.Statuses[v.col],
		Index:      v.row,
	}
	return v.request(intent)
}

// quickMove sends the selected card to the end of the neighbouring column.
func (v *boardView) quickMove(delta int) tea.Cmd {
	inc, ok := v.selected()
	target := v.col + delta
	if !ok || target < 0 || target >= len(domain.Statuses) {
		return nil
	}
	to := domain.Statuses[target]
	return v.request(board.Intent{
		IncidentID: inc.ID,
		From:       inc.Status,
		To:         to,
		Index:      len(v.partition().Column(to)),
	})
}

func (v *boardView) request(in board.Intent) tea.Cmd {
	t, err := v.ctrl.Request(in)
	v.focus(in.IncidentID)
	if err != nil {
		return v.showNotice(err)
	}
	if t == nil {
		return nil
	}
	return v.persist(t)
}

func (v *boardView) persist(t *board.Transition) tea.Cmd {
	ctrl, state := v.ctrl, v.state
	return func() tea.Msg {
		ctx, cancel := state.callContext()
		defer cancel()
		return transitionSettledMsg{outcome: ctrl.Persist(ctx, t)}
	}
}

func (v *boardView) showNotice(err error) tea.Cmd {
	n, ok := board.NoticeFor(err)
	if !ok {
		return nil
	}
	v.noticeSeq++
	v.notice = &n
	seq := v.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (v *boardView) resolveAssignees() tea.Cmd {
	var cmds []tea.Cmd
	for _, inc := range v.store.Snapshot() {
		if inc.AssigneeID == nil {
			continue
		}
		id := *inc.AssigneeID
		if _, ok := v.state.CachedUser(id); ok || v.resolving[id] || v.failed[id] {
			continue
		}
		v.resolving[id] = true
		cmds = append(cmds, v.resolveUser(id))
	}
	return tea.Batch(cmds...)
}

func (v *boardView) resolveUser(id int64) tea.Cmd {
	state := v.state
	return func() tea.Msg {
		ctx, cancel := state.callContext()
		defer cancel()
		u, err := state.App.Backend.GetUser(ctx, id)
		return userResolvedMsg{id: id, user: u, err: err}
	}
}

// ── cursor ───────────────────────────────────────────────────────────────────

func (v *boardView) partition() board.Partition {
	if ver := v.store.Version(); ver != v.projVersion {
		v.proj = board.Project(v.store.Snapshot())
		v.projVersion = ver
	}
	return v.proj
}

func (v *boardView) column(i int) []domain.Incident {
	return v.partition().Column(domain.Statuses[i])
}

// others is column i without the carried card.
func (v *boardView) others(i int) []domain.Incident {
	col := v.column(i)
	if v.carrying == nil {
		return col
	}
	out := make([]domain.Incident, 0, len(col))
	for _, inc := range col {
		if inc.ID != v.carrying.id {
			out = append(out, inc)
		}
	}
	return out
}

func (v *boardView) selected() (domain.Incident, bool) {
	col := v.column(v.col)
	if v.row < 0 || v.row >= len(col) {
		return domain.Incident{}, false
	}
	return col[v.row], true
}

func (v *boardView) moveColumn(delta int) {
	next := v.col + delta
	if next < 0 || next >= len(domain.Statuses) {
		return
	}
	v.col = next
	v.clamp()
}

func (v *boardView) focus(id int64) {
	status, idx, ok := v.partition().Locate(id)
	if !ok {
		v.clamp()
		return
	}
	for i, s := range domain.Statuses {
		if s == status {
			v.col = i
		}
	}
	v.row = idx
}

func (v *boardView) clamp() {
	if v.carrying != nil {
		if _, ok := v.store.Get(v.carrying.id); !ok {
			v.carrying = nil
		}
	}
	last := len(v.column(v.col)) - 1
	if v.carrying != nil {
		last = len(v.others(v.col))
	}
	if v.row > last {
		v.row = last
	}
	if v.row < 0 {
		v.row = 0
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *boardView) View() string {
	if v.err != nil && v.store.Len() == 0 {
		return "\n  " + formatter.StyleRed.Render("No se pudieron cargar las incidencias: "+v.err.Error()) +
			"\n  " + formatter.Dim("r: reintentar")
	}
	if v.loading && v.store.Len() == 0 {
		return "\n  " + formatter.Dim("Cargando incidencias...")
	}

	var b strings.Builder
	b.WriteString(v.renderNotice())
	b.WriteString("\n")

	width := (max(v.state.Width, 78) - 2) / len(domain.Statuses)
	cols := make([]string, 0, len(domain.Statuses)*2)
	for i := range domain.Statuses {
		if i > 0 {
			cols = append(cols, " ")
		}
		cols = append(cols, v.renderColumn(i, width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	return b.String()
}

func (v *boardView) renderNotice() string {
	if v.notice == nil {
		if v.loading {
			return formatter.Dim("Actualizando...")
		}
		return ""
	}
	style := formatter.StyleRed.Bold(true)
	if v.notice.Kind == board.NoticeInvalid {
		style = formatter.StyleYellow
	}
	return style.Render("⚠ " + v.notice.Message)
}

func (v *boardView) renderColumn(i, width int) string {
	status := domain.Statuses[i]
	active := i == v.col

	cards := v.others(i)
	count := len(v.column(i))
	titleText := fmt.Sprintf("%s (%d)", status, count)
	if active {
		titleText = "› " + titleText
	}
	lines := []string{
		lipgloss.NewStyle().Foreground(formatter.StatusColor(status)).Bold(true).Render(titleText),
		formatter.Dim(strings.Repeat("─", width)),
	}

	ghost := -1
	if v.carrying != nil && active {
		ghost = v.row
	}
	if len(cards) == 0 && ghost < 0 {
		lines = append(lines, formatter.Dim(emptyColumnText))
		return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
	}

	slots := len(cards)
	if ghost >= 0 {
		slots++
	}
	fit := max((v.state.ContentHeight()-3)/cardHeight, 1)
	start := 0
	if active && v.row >= fit {
		start = v.row - fit + 1
	}
	end := min(start+fit, slots)

	for slot := start; slot < end; slot++ {
		switch {
		case slot == ghost:
			inc, _ := v.store.Get(v.carrying.id)
			lines = append(lines, v.renderCard(inc, width, cardGhost))
		default:
			idx := slot
			if ghost >= 0 && slot > ghost {
				idx--
			}
			kind := cardPlain
			if active && v.carrying == nil && idx == v.row {
				kind = cardSelected
			}
			lines = append(lines, v.renderCard(cards[idx], width, kind))
		}
	}
	if end < slots {
		lines = append(lines, formatter.Dim(fmt.Sprintf("… %d más", slots-end)))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

type cardKind int

const (
	cardPlain cardKind = iota
	cardSelected
	cardGhost
)

func (v *boardView) renderCard(inc domain.Incident, width int, kind cardKind) string {
	inner := max(width-4, 10)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorDim).
		Padding(0, 1).
		Width(width - 2).
		Height(cardHeight - 2)

	head := fmt.Sprintf("#%d  %s", inc.ID, formatter.PriorityBadge(inc.Priority))
	switch kind {
	case cardSelected:
		style = style.BorderForeground(formatter.ColorHeader)
	case cardGhost:
		style = style.Border(lipgloss.DoubleBorder()).BorderForeground(formatter.ColorPurple)
		head = fmt.Sprintf("#%d  %s", inc.ID, formatter.StylePurple.Render("↓ soltar aquí"))
	}

	summary := lipgloss.NewStyle().Width(inner).MaxHeight(2).Render(inc.Summary(cardSummaryLen))
	content := head + "\n" + summary + "\n" + formatter.Dim(v.assigneeLabel(inc))
	return style.Render(content)
}

func (v *boardView) assigneeLabel(inc domain.Incident) string {
	if inc.AssigneeID == nil {
		return "Sin asignar"
	}
	if u, ok := v.state.CachedUser(*inc.AssigneeID); ok {
		return u.Name
	}
	return loadingPlaceholder
}
