package bubbletea

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/chat"
)

var _ tea.Model = Model{}

// DefaultTitle is shown in the header when no title is configured.
const DefaultTitle = "AI Chat"

// Layout rows outside the viewport.
const (
	headerHeight = 1
	statusHeight = 1
	inputHeight  = 1
	borderHeight = 3 // newlines between sections
)

// Model is the Bubble Tea model for the chat TUI. It renders snapshots of a
// [chat.Conversation] and turns key presses into conversation calls.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the status line while a reply is loading.
	Spinner spinner.Model

	conv        chat.Conversation
	sub         <-chan chat.State
	unsubscribe func()

	state    chat.State
	title    string
	styles   Styles
	notice   error // rejected key action, cleared on the next key
	spinning bool
	ready    bool
	width    int
}

// Option configures a [Model].
type Option func(*Model)

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// New creates a TUI Model that drives conv. It subscribes to conv
// immediately; [Run] releases the subscription when the program exits.
func New(conv chat.Conversation, theme chat.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := NewStyles(theme)
	sp.Style = styles.Accent

	sub, unsubscribe := conv.Subscribe()
	m := Model{
		Input:       ti,
		Spinner:     sp,
		conv:        conv,
		sub:         sub,
		unsubscribe: unsubscribe,
		state:       conv.State(),
		title:       DefaultTitle,
		styles:      styles,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// State returns the last conversation snapshot the model rendered.
func (m Model) State() chat.State { return m.state }

// Notice returns the last rejected action, if any.
func (m Model) Notice() error { return m.notice }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForState(m.sub))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		var cmd tea.Cmd
		m, cmd = m.setState(msg.State)
		return m, tea.Batch(cmd, listenForState(m.sub))

	case spinner.TickMsg:
		if !m.state.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Viewport always receives remaining messages for scrolling.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.title, m.state, m.width, m.styles))
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	vpHeight := msg.Height - headerHeight - statusHeight - inputHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	m.width = msg.Width
	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = nil

	switch msg.Type {
	case tea.KeyCtrlC:
		// Decide on the live state: the last snapshot may lag behind.
		if m.conv.State().Loading {
			m.conv.Cancel()
			return m.refresh()
		}
		return m, tea.Quit

	case tea.KeyEsc:
		m.conv.Cancel()
		return m.refresh()

	case tea.KeyEnter:
		if m.state.Loading {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		if err := m.conv.Submit(text); err != nil {
			m.notice = err
			return m, nil
		}
		m.Input.SetValue("")
		return m.refresh()

	case tea.KeyTab:
		if next, ok := nextModel(m.state); ok {
			if err := m.conv.SetModel(next); err != nil {
				m.notice = err
			}
		}
		return m.refresh()

	case tea.KeyCtrlT:
		if err := m.conv.SetShowThinking(!m.state.ShowThinking); err != nil {
			m.notice = err
		}
		return m.refresh()
	}

	// Forward non-character keys to the viewport as well, so 'j'/'k' type
	// text instead of scrolling.
	var cmd tea.Cmd
	var cmds []tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// refresh pulls the current snapshot after a synchronous conversation call,
// so the view does not wait for the subscription to catch up.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	return m.setState(m.conv.State())
}

func (m Model) setState(s chat.State) (Model, tea.Cmd) {
	m.state = s
	if m.ready {
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
	}
	if s.Loading && !m.spinning {
		m.spinning = true
		return m, m.Spinner.Tick
	}
	return m, nil
}

func (m Model) renderContent() string {
	blocks := blocksFor(m.state.Messages, m.state.ShowThinking, m.styles)
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString(blockSeparator(blocks[i-1], block))
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.state.Loading:
		return m.Spinner.View() + " " + m.styles.Muted.Render("Thinking...")
	case m.notice != nil:
		return m.styles.Error.Render(m.notice.Error())
	case m.state.Err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.state.Err))
	}
	return m.styles.Muted.Render("Enter send · Tab model · Ctrl+T thinking · Ctrl+C quit")
}

// nextModel returns the catalog entry after the selected one, wrapping around.
func nextModel(s chat.State) (string, bool) {
	if len(s.Models) == 0 {
		return "", false
	}
	i := slices.IndexFunc(s.Models, func(m chat.Model) bool { return m.ID == s.Model })
	return s.Models[(i+1)%len(s.Models)].ID, true
}
