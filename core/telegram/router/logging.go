package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram/helpers"
)

// handleWithSummary wraps a handler with a per-invocation summary log and
// metrics. The handler name lands in the logging context so nested logs
// carry it too.
func handleWithSummary(name string, rec metrics.Recorder, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		ctx := logger.WithHandler(helpers.LoggingContext(c), name)
		helpers.SetLoggingContext(c, ctx)

		err := h(c)
		if rec != nil {
			rec.RecordHandler(name, err)
		}

		attrs := []slog.Attr{
			slog.String("handler", name),
			slog.String("status", logger.Status(err)),
			slog.Duration("took", logger.Took(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("err", err.Error()))
			logger.Error(ctx, "tg", "handler.done", attrs...)
			return err
		}
		logger.Info(ctx, "tg", "handler.done", attrs...)
		return nil
	}
}
