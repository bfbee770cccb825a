// Package telegram wires a telebot.v4 bot: client, poller, middleware
// chain, routing, and lifecycle.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/graphenelabs/graphbot/core/config"
	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram/router"
	"github.com/graphenelabs/graphbot/core/telegram/state"
)

// RunOptions configures the bot lifecycle.
type RunOptions struct {
	Token       string
	AdminID     int64
	RunMode     string
	PollTimeout time.Duration
	HTTPTimeout time.Duration
	Webhook     WebhookOptions

	RateLimit     coreconfig.RateLimitConfig
	OnRateLimited func(tele.Context)
	Recorder      metrics.Recorder
	StateManager  *state.Manager
	StateSweepTTL time.Duration
	Registry      *Registry

	// OnReady is called once the bot is connected, before polling starts.
	OnReady func(bot *tele.Bot) error
}

// RunTelegram connects the bot, binds the registry, and polls until ctx
// is cancelled. It returns after the poller has fully stopped.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if opts.Token == "" {
		return fmt.Errorf("telegram: token is required")
	}
	if opts.Registry == nil {
		return fmt.Errorf("telegram: registry is required")
	}
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.Nop()
	}
	mgr := opts.StateManager
	if mgr == nil {
		mgr = state.NewManager()
	}

	poller := NewPoller(PollerOptions{
		RunMode: opts.RunMode,
		Timeout: opts.PollTimeout,
		Webhook: opts.Webhook,
	})

	bot, err := tele.NewBot(tele.Settings{
		Token:  opts.Token,
		Poller: poller,
		Client: NewHTTPClient(opts.HTTPTimeout),
		OnError: func(err error, c tele.Context) {
			logCtx := context.Background()
			if c != nil {
				logCtx = logger.WithUpdateMeta(logCtx, c.Update().ID, senderID(c), chatIDOf(c))
			}
			logger.Error(logCtx, "tg", "bot.error",
				slog.String("err", err.Error()),
			)
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}

	logger.Info(ctx, "tg", "bot.connected",
		slog.String("bot_username", bot.Me.Username),
		slog.Int64("bot_id", bot.Me.ID),
	)

	switch p := poller.(type) {
	case *tele.Webhook:
		logger.Info(ctx, "tg", "mode.webhook",
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
		)
	case *tele.LongPoller:
		logger.Info(ctx, "tg", "mode.longpoll",
			slog.Duration("timeout", p.Timeout),
		)
		// A webhook left over from a previous deployment blocks getUpdates.
		if err := bot.RemoveWebhook(); err != nil {
			logger.Warn(ctx, "tg", "webhook.cleanup_failed",
				slog.String("err", err.Error()),
			)
		}
	}

	bot.Use(DefaultMiddlewares(rec, opts.RateLimit, opts.OnRateLimited)...)

	router.BindCommands(bot, opts.Registry.Commands, opts.AdminID, rec)
	router.BindCallbacks(bot, opts.Registry.Callbacks, rec)
	router.BindTextFlows(bot, mgr, opts.Registry.TextFlows, opts.Registry.TextFallback, rec)

	if err := InitBotCommands(bot, opts.Registry); err != nil {
		logger.Warn(ctx, "tg", "commands.publish_failed",
			slog.String("err", err.Error()),
		)
	}

	if opts.OnReady != nil {
		if err := opts.OnReady(bot); err != nil {
			return fmt.Errorf("telegram: on-ready hook: %w", err)
		}
	}

	sweepTTL := opts.StateSweepTTL
	if sweepTTL <= 0 {
		sweepTTL = 30 * time.Minute
	}
	go sweepStates(ctx, mgr, sweepTTL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()

	logger.Info(ctx, "tg", "bot.started")

	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
	case <-done:
	}
	logger.Info(context.Background(), "tg", "bot.stopped")
	return nil
}

// sweepStates evicts stale conversational state periodically.
func sweepStates(ctx context.Context, mgr *state.Manager, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := mgr.Sweep(ttl); removed > 0 {
				logger.Debug(ctx, "tg", "state.swept",
					slog.Int("removed", removed),
					slog.Int("remaining", mgr.Len()),
				)
			}
		}
	}
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func chatIDOf(c tele.Context) int64 {
	if ch := c.Chat(); ch != nil {
		return ch.ID
	}
	return 0
}
