// Package tui provides the Bubble Tea front-end for the tetris engine: the
// game screen, the menu, the scoreboard and the SSH server that hosts them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// eventMsg carries one engine event into the Bubble Tea loop.
type eventMsg struct {
	source <-chan tetris.Event
	event  tetris.Event
}

// flashExpiredMsg clears a flash message once its deadline passes.
type flashExpiredMsg struct {
	id int
}

// waitForEvent returns a command that blocks until the next engine event.
// It yields nil once the subscription is closed, ending the chain.
func waitForEvent(events <-chan tetris.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg{source: events, event: evt}
	}
}

// flashCmd expires flash id after d.
func flashCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}
