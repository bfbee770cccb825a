package helpers

import (
	"errors"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
)

// EditOrSend edits the message behind a callback, falling back to sending
// a fresh message when editing fails (message too old, content identical).
func EditOrSend(c tele.Context, what interface{}, opts ...interface{}) error {
	if c.Callback() == nil {
		return c.Send(what, opts...)
	}
	err := c.Edit(what, opts...)
	if err == nil {
		return nil
	}
	if errors.Is(err, tele.ErrSameMessageContent) || isNotModified(err) {
		return nil
	}
	logger.Debug(LoggingContext(c), "tg", "edit.fallback",
		slog.String("err", err.Error()),
	)
	return c.Send(what, opts...)
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// Respond acknowledges a callback query, ignoring expired-query errors.
func Respond(c tele.Context, resp ...*tele.CallbackResponse) {
	if c.Callback() == nil {
		return
	}
	_ = c.Respond(resp...)
}
