package router

import (
	"context"
	"log/slog"
	"sort"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram/callbacks"
	"github.com/graphenelabs/graphbot/core/telegram/helpers"
)

// BindCallbacks installs a single OnCallback dispatcher that routes by the
// unique key embedded in the callback data. Unknown keys are acknowledged
// and logged; stale buttons from old messages must not error at the user.
func BindCallbacks(bot *tele.Bot, handlers map[string]tele.HandlerFunc, rec metrics.Recorder) {
	wrapped := make(map[string]tele.HandlerFunc, len(handlers))
	keys := make([]string, 0, len(handlers))
	for key, h := range handlers {
		wrapped[key] = handleWithSummary("cb:"+key, rec, h)
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bot.Handle(tele.OnCallback, func(c tele.Context) error {
		key := callbacks.CallbackKey(c)
		if h, ok := wrapped[key]; ok {
			return h(c)
		}
		helpers.Respond(c)
		logger.Warn(helpers.LoggingContext(c), "tg", "callback.unknown",
			slog.String("key", logger.SanitizeLimit(key, 64)),
		)
		return nil
	})

	summary, truncated := logger.SummarizeStrings(keys, 10)
	logger.Info(context.Background(), "tg.wire", "callbacks.bound",
		slog.Int("count", len(keys)),
		slog.String("callbacks", summary),
		slog.Bool("truncated", truncated),
	)
}
