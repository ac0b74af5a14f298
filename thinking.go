package chat

import "strings"

// Textual markers some models use to separate a reasoning trace from the
// answer inside ordinary content. This is a convention, not a protocol field:
// when a provider sends Fragment.Reasoning the markers are never needed.
const (
	ThinkingMarker = "Thinking:"
	OutputMarker   = "Output:"
)

// Accumulated is the text assembled so far for one assistant reply.
type Accumulated struct {
	Content  string
	Thinking string
}

// Accumulate applies one fragment to acc.
//
// With showThinking off, fragment text is appended to the content and any
// reasoning is dropped. With it on, structured reasoning is appended to the
// thinking trace, and text carrying the ThinkingMarker is split at the first
// OutputMarker: the part before it extends the thinking trace and the part
// after it replaces the content. Without an OutputMarker the answer has not
// started yet and the content is reset.
func Accumulate(acc Accumulated, f Fragment, showThinking bool) Accumulated {
	if !showThinking {
		acc.Content += f.Text
		return acc
	}
	acc.Thinking += f.Reasoning
	if !strings.Contains(f.Text, ThinkingMarker) {
		acc.Content += f.Text
		return acc
	}
	before, after, found := strings.Cut(f.Text, OutputMarker)
	acc.Thinking += strings.TrimSpace(strings.Replace(before, ThinkingMarker, "", 1))
	if found {
		acc.Content = strings.TrimSpace(after)
	} else {
		acc.Content = ""
	}
	return acc
}
