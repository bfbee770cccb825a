package middleware

import (
	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram/helpers"
)

// ObserveMiddleware counts every inbound update by kind.
func ObserveMiddleware(rec metrics.Recorder) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			rec.RecordUpdate(helpers.UpdateKind(c))
			return next(c)
		}
	}
}
