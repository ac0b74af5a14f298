// Package bubbletea provides a Bubble Tea TUI for a chat conversation.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/chat"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	defer m.unsubscribe()
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StateMsg delivers a conversation snapshot to the Bubble Tea model.
type StateMsg struct {
	State chat.State
}

// listenForState waits for the next snapshot. It returns nil once the
// subscription is closed, which ends the listening loop.
func listenForState(ch <-chan chat.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return StateMsg{State: s}
	}
}
