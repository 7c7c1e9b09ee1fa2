package assistant

import (
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Transcript renders messages as "role: text" lines in the order given. It
// never re-sorts, so the output order matches whatever listing order the
// caller chose.
func Transcript(messages []openai.Message) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(MessageText(m))
		b.WriteByte('\n')
	}
	return b.String()
}

// MessageText returns the first text segment of a message, or "" for
// messages with no text content.
func MessageText(m openai.Message) string {
	for _, c := range m.Content {
		if c.Text != nil {
			return c.Text.Value
		}
	}
	return ""
}
