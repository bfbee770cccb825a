package telegram

import (
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/graphenelabs/graphbot/core/config"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram/middleware"
)

// DefaultMiddlewares returns the standard chain. Order matters: recover
// wraps everything, and logging builds the request context before metrics
// and rate limiting run.
func DefaultMiddlewares(rec metrics.Recorder, rl coreconfig.RateLimitConfig, onLimited func(tele.Context)) []tele.MiddlewareFunc {
	return []tele.MiddlewareFunc{
		middleware.RecoverMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.ObserveMiddleware(rec),
		middleware.RateLimitMiddleware(time.Duration(rl.IntervalMS)*time.Millisecond, rl.ExcludeUpdates, onLimited),
	}
}
