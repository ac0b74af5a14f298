package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = (*AssistantBlock)(nil)

// Cursor marks a reply that is streaming but has no text yet.
const Cursor = "▍"

// AssistantBlock renders assistant text as plain wrapped text.
type AssistantBlock struct {
	text      string
	streaming bool
	styles    Styles
}

// NewAssistantBlock creates an AssistantBlock.
func NewAssistantBlock(text string, streaming bool, styles Styles) *AssistantBlock {
	return &AssistantBlock{text: text, streaming: streaming, styles: styles}
}

func (b *AssistantBlock) View(width int) string {
	if b.text == "" && b.streaming {
		return b.styles.Assistant.Render(Cursor)
	}
	return lipgloss.NewStyle().Width(width).Render(b.text)
}
