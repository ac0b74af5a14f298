package bubbletea_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/chat"
	bt "github.com/fwojciec/chat/bubbletea"
	"github.com/fwojciec/chat/mock"
	"github.com/stretchr/testify/require"
)

// greetedState is a fresh conversation with the default catalog.
func greetedState() chat.State {
	return chat.State{
		Messages: []chat.Message{{ID: "g", Role: chat.RoleAssistant, Content: chat.DefaultGreeting}},
		Models:   chat.DefaultModels(),
		Model:    "qwen/qwen3-235b-a22b",
	}
}

// fakeConversation returns a conversation double that reports s and never
// publishes. Tests set the remaining function fields they need.
func fakeConversation(s chat.State) *mock.Conversation {
	ch := make(chan chat.State)
	return &mock.Conversation{
		StateFn:     func() chat.State { return s },
		SubscribeFn: func() (<-chan chat.State, func()) { return ch, func() {} },
	}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, conv chat.Conversation) bt.Model {
	t.Helper()
	return initModelWithSize(t, conv, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, conv chat.Conversation, width, height int) bt.Model {
	t.Helper()
	m := bt.New(conv, chat.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}
