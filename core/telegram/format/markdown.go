package format

import "strings"

// Telegram's legacy Markdown entities. User-supplied values interpolated
// into Markdown texts go through here so a stray underscore in a username
// or wallet address cannot break the message.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown escapes Markdown special characters in user-provided text.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
