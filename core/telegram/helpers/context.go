package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
)

const loggingCtxKey = "logging_ctx"

// SetLoggingContext stores a request-scoped context on the telebot context.
func SetLoggingContext(c tele.Context, ctx context.Context) {
	c.Set(loggingCtxKey, ctx)
}

// LoggingContext returns the request-scoped context placed by the logging
// middleware, or a fresh one carrying whatever update metadata is available.
func LoggingContext(c tele.Context) context.Context {
	if v := c.Get(loggingCtxKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	ctx := context.Background()
	var userID, chatID int64
	if u := c.Sender(); u != nil {
		userID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		chatID = ch.ID
	}
	if userID != 0 || chatID != 0 {
		ctx = logger.WithUpdateMeta(ctx, c.Update().ID, userID, chatID)
	}
	return ctx
}
