package bubbletea

import (
	"strings"

	"github.com/fwojciec/chat"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// renderHeader lays out the title and model name on the left and the
// thinking flag on the right, truncating the model name to fit width.
func renderHeader(title string, s chat.State, width int, styles Styles) string {
	name := s.Model
	if m, ok := chat.FindModel(s.Models, s.Model); ok && m.Name != "" {
		name = m.Name
	}

	var flag string
	if s.SupportsThinking(s.Model) {
		flag = "thinking: off"
		if s.ShowThinking {
			flag = "thinking: on"
		}
	}

	titleW := uniseg.StringWidth(title)
	flagW := uniseg.StringWidth(flag)
	room := width - titleW - flagW - 4 // " · " plus one space before the flag
	if room < 1 {
		room = 1
	}
	name = runewidth.Truncate(name, room, "…")

	left := title + " · " + name
	gap := width - uniseg.StringWidth(left) - flagW
	if gap < 1 {
		gap = 1
	}
	return styles.Accent.Render(title) + styles.Muted.Render(" · ") + name +
		strings.Repeat(" ", gap) + styles.Muted.Render(flag)
}
