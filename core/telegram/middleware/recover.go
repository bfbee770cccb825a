package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/telegram/helpers"
)

// RecoverMiddleware converts handler panics into logged errors so a single
// bad update cannot take the poller down.
func RecoverMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(helpers.LoggingContext(c), "tg", "handler.panic",
						slog.String("err", fmt.Sprintf("panic: %v", r)),
						slog.String("stack", logger.SanitizeLimit(string(debug.Stack()), 2000)),
					)
					err = fmt.Errorf("handler panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}
