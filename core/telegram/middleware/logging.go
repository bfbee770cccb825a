package middleware

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/telegram/helpers"
)

// LoggerMiddleware builds the request-scoped logging context: correlation
// id plus update metadata, attached to the telebot context for handlers
// and routers downstream.
func LoggerMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			var userID, chatID int64
			if u := c.Sender(); u != nil {
				userID = u.ID
			}
			if ch := c.Chat(); ch != nil {
				chatID = ch.ID
			}
			updateID := c.Update().ID

			rid := logger.CompactRID(logger.BuildRID(updateID, chatID, userID))
			ctx := logger.WithRID(context.Background(), rid)
			ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
			helpers.SetLoggingContext(c, ctx)

			if logger.ShouldSampleDebug() {
				logger.Debug(ctx, "tg", "update.received",
					slog.String("kind", helpers.UpdateKind(c)),
					slog.String("from", helpers.DisplayName(c.Sender())),
				)
			}
			return next(c)
		}
	}
}
