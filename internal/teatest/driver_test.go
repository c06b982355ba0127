package teatest

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneMsg struct{ n int }

// counterModel starts an async job on each "s" and records completions.
type counterModel struct {
	started int
	done    []int
	width   int
}

func (m counterModel) Init() tea.Cmd { return nil }

func (m counterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			m.started++
			n := m.started
			return m, func() tea.Msg { return doneMsg{n: n} }
		case "b":
			m.started += 3
			job := func(n int) tea.Cmd { return func() tea.Msg { return doneMsg{n: n} } }
			return m, tea.Batch(job(1), tea.Batch(job(2), job(3)))
		case "q":
			return m, tea.Quit
		}
	case doneMsg:
		m.done = append(m.done, msg.n)
	}
	return m, nil
}

func (m counterModel) View() string {
	parts := make([]string, len(m.done))
	for i, n := range m.done {
		parts[i] = fmt.Sprint(n)
	}
	return "done: " + strings.Join(parts, ",")
}

func holdDone() Option {
	return WithHold(func(msg tea.Msg) bool {
		_, ok := msg.(doneMsg)
		return ok
	})
}

func TestDriver_DeliversCmdResults(t *testing.T) {
	d := New(t, counterModel{}, WithSize(80, 24))
	d.DrainInit()

	d.PressKey('s')
	d.PressKey('s')

	assert.Equal(t, "done: 1,2", d.View())
	assert.Equal(t, 80, d.Model.(counterModel).width)
}

func TestDriver_DrainsNestedBatches(t *testing.T) {
	d := New(t, counterModel{})

	d.PressKey('b')

	assert.Equal(t, "done: 1,2,3", d.View())
}

func TestDriver_HoldAndReleaseOutOfOrder(t *testing.T) {
	d := New(t, counterModel{}, holdDone())

	d.PressKey('s')
	d.PressKey('s')
	require.Len(t, d.Held(), 2)
	assert.Equal(t, "done: ", d.View())

	d.Release(1)
	assert.Equal(t, "done: 2", d.View())
	require.Len(t, d.Held(), 1)

	d.ReleaseAll()
	assert.Equal(t, "done: 2,1", d.View())
	assert.Empty(t, d.Held())
}

func TestDriver_QuitStopsDelivery(t *testing.T) {
	d := New(t, counterModel{})

	d.PressKey('q')
	require.True(t, d.Quitting)

	d.PressKey('s')
	assert.Equal(t, 0, d.Model.(counterModel).started)
}
