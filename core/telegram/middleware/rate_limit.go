package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/telegram/helpers"
)

// RateLimitMiddleware drops updates arriving from the same user faster
// than the configured interval. Update kinds listed in exclude bypass the
// limiter entirely. onLimited, when non-nil, is invoked once per dropped
// update so the caller can notify the user.
func RateLimitMiddleware(interval time.Duration, exclude []string, onLimited func(tele.Context)) tele.MiddlewareFunc {
	if interval <= 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, kind := range exclude {
		excluded[kind] = struct{}{}
	}

	var mu sync.Mutex
	lastSeen := make(map[int64]time.Time)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			if _, ok := excluded[helpers.UpdateKind(c)]; ok {
				return next(c)
			}

			now := time.Now()
			mu.Lock()
			last, seen := lastSeen[sender.ID]
			limited := seen && now.Sub(last) < interval
			if !limited {
				lastSeen[sender.ID] = now
			}
			mu.Unlock()

			if limited {
				logger.Warn(helpers.LoggingContext(c), "tg", "update.rate_limited",
					slog.Duration("since_last", logger.RoundMS(now.Sub(last))),
					slog.Duration("interval", interval),
				)
				if onLimited != nil {
					onLimited(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
