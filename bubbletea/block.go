package bubbletea

import "github.com/fwojciec/chat"

// MessageBlock is a renderable element in the conversation.
// View takes a width parameter so the root model controls layout and blocks
// are testable in isolation.
type MessageBlock interface {
	View(width int) string
}

// blocksFor maps conversation messages to blocks. When showThinking is set,
// a thinking trace renders as its own block directly above the reply it
// belongs to.
func blocksFor(msgs []chat.Message, showThinking bool, styles Styles) []MessageBlock {
	blocks := make([]MessageBlock, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case chat.RoleUser:
			blocks = append(blocks, NewUserMessageBlock(msg.Content, styles))
		case chat.RoleAssistant:
			if showThinking && msg.Thinking != "" {
				blocks = append(blocks, NewThinkingBlock(msg.Thinking, msg.Streaming, styles))
			}
			if msg.Failed {
				blocks = append(blocks, NewErrorBlock(msg.Content, styles))
				continue
			}
			blocks = append(blocks, NewAssistantBlock(msg.Content, msg.Streaming, styles))
		}
	}
	return blocks
}

// blockSeparator returns the gap between two blocks. A thinking trace sits
// tight against its reply; everything else gets a blank line.
func blockSeparator(prev, curr MessageBlock) string {
	if _, ok := prev.(*ThinkingBlock); ok {
		if _, ok := curr.(*AssistantBlock); ok {
			return "\n"
		}
	}
	return "\n\n"
}
