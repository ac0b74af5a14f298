package bubbletea

import "github.com/fwojciec/chat"

// BlockSeparator exports blockSeparator for testing.
func BlockSeparator(prev, curr MessageBlock) string {
	return blockSeparator(prev, curr)
}

// BlocksFor exports blocksFor for testing.
func BlocksFor(msgs []chat.Message, showThinking bool, styles Styles) []MessageBlock {
	return blocksFor(msgs, showThinking, styles)
}

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// RenderHeader exports renderHeader for testing.
func RenderHeader(title string, s chat.State, width int, styles Styles) string {
	return renderHeader(title, s, width, styles)
}

// NextModel exports nextModel for testing.
func NextModel(s chat.State) (string, bool) {
	return nextModel(s)
}
