package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = (*ThinkingBlock)(nil)

// ThinkingBlock renders a reasoning trace in a faint style. While the reply
// is still streaming the trace ends with an ellipsis.
type ThinkingBlock struct {
	text      string
	streaming bool
	styles    Styles
}

// NewThinkingBlock creates a ThinkingBlock.
func NewThinkingBlock(text string, streaming bool, styles Styles) *ThinkingBlock {
	return &ThinkingBlock{text: text, streaming: streaming, styles: styles}
}

func (b *ThinkingBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	text := b.text
	if b.streaming {
		text += "..."
	}
	header := b.styles.Thinking.Render(wrap.Render("Thinking"))
	return header + "\n" + b.styles.Thinking.Render(wrap.Render(text))
}
