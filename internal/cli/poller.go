package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// pollTickMsg is one scheduled wake-up of a named poller.
type pollTickMsg struct {
	name string
	gen  uint64
}

func (pollTickMsg) background() {}

// poller schedules periodic ticks bound to a view's lifetime. Start and
// Stop each begin a new generation; ticks from an older generation are
// rejected by Accept, so a stopped poller never fires again even if a tick
// was already in flight.
type poller struct {
	name     string
	interval time.Duration
	gen      uint64
	running  bool
}

func newPoller(name string, interval time.Duration) *poller {
	return &poller{name: name, interval: interval}
}

// Start begins polling. The first tick arrives after one interval.
func (p *poller) Start() tea.Cmd {
	if p.interval <= 0 {
		return nil
	}
	p.gen++
	p.running = true
	return p.next()
}

// Stop cancels polling.
func (p *poller) Stop() {
	p.gen++
	p.running = false
}

// Running reports whether the poller is between Start and Stop.
func (p *poller) Running() bool { return p.running }

// Accept reports whether msg is a live tick of this poller. For a live tick
// it also returns the Cmd scheduling the following one.
func (p *poller) Accept(msg pollTickMsg) (bool, tea.Cmd) {
	if msg.name != p.name || !p.running || msg.gen != p.gen {
		return false, nil
	}
	return true, p.next()
}

func (p *poller) next() tea.Cmd {
	msg := pollTickMsg{name: p.name, gen: p.gen}
	return tea.Tick(p.interval, func(time.Time) tea.Msg { return msg })
}
