package helpers

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// DisplayName returns the best human-readable name for a Telegram user.
func DisplayName(u *tele.User) string {
	if u == nil {
		return "unknown"
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return "unknown"
}

// UpdateKind classifies an update for logging and metrics.
func UpdateKind(c tele.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil && c.Message().Text != "" && strings.HasPrefix(c.Message().Text, "/"):
		return "command"
	case c.Message() != nil:
		return "message"
	default:
		return "other"
	}
}
