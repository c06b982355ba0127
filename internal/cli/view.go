package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewBoard ViewID = iota
	ViewDetail
	ViewNotifications
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// unmounter is implemented by views that hold resources (stores, pollers)
// which must be released when the view leaves the stack.
type unmounter interface {
	Unmount()
}

// escCapturer is implemented by views that use Esc themselves while in
// some mode, e.g. the board cancelling a carried card.
type escCapturer interface {
	CapturesEsc() bool
}

func unmount(v View) {
	if u, ok := v.(unmounter); ok {
		u.Unmount()
	}
}
