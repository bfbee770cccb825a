// Package app assembles the incentive program bot from its parts and
// drives it through the shared process lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/bootstrap"
	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram"
	"github.com/graphenelabs/graphbot/core/telegram/sender"
	"github.com/graphenelabs/graphbot/core/telegram/state"
	botpkg "github.com/graphenelabs/graphbot/internal/bot"
	"github.com/graphenelabs/graphbot/internal/repository"
	"github.com/graphenelabs/graphbot/internal/service"
)

// App wires repositories, services, and the conversation layer.
type App struct {
	cfg *Config

	registry *telegram.Registry
	states   *state.Manager
	handlers *botpkg.Handlers
	quiz     *service.Quiz
	notify   *sender.Dispatcher

	rec      metrics.Recorder
	gatherer prometheus.Gatherer
}

// New creates an unassembled application; Setup completes it.
func New(cfg *Config) *App {
	return &App{cfg: cfg}
}

// Setup builds the object graph on top of the bootstrap results.
func (a *App) Setup(ctx context.Context, res *bootstrap.Result) error {
	a.rec = metrics.Nop()
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		a.rec = metrics.NewCollector(reg)
		a.gatherer = reg
	}

	users := repository.NewUsers(res.DB)
	tasks := repository.NewTasks(res.DB)

	userSvc := service.NewUsers(users)
	taskSvc := service.NewTasks(tasks, a.rec)
	quizTTL := time.Duration(a.cfg.Bot.QuizTTLMinutes) * time.Minute
	a.quiz = service.NewQuiz(taskSvc, a.rec, quizTTL)
	rewardSvc := service.NewRewards(users, taskSvc, a.rec)

	a.states = state.NewManager()
	a.handlers = botpkg.New(userSvc, taskSvc, a.quiz, rewardSvc, a.states, a.cfg.Bot.Channel)

	a.registry = telegram.NewRegistry()
	a.handlers.Register(a.registry)

	logger.Info(ctx, "app", "app.assembled",
		slog.String("channel", a.cfg.Bot.Channel),
		slog.Bool("metrics", a.cfg.Metrics.Enabled),
	)
	return nil
}

// Run starts the metrics endpoint, the quiz janitor, and the bot, and
// blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.gatherer != nil {
		go func() {
			if err := metrics.Serve(ctx, a.cfg.Metrics.Listen, a.gatherer); err != nil {
				logger.Error(ctx, "app", "metrics.serve_failed",
					slog.String("err", err.Error()),
				)
			}
		}()
	}
	go a.quiz.RunJanitor(ctx)

	return telegram.RunTelegram(ctx, telegram.RunOptions{
		Token:       a.cfg.Telegram.Token,
		AdminID:     a.cfg.Telegram.AdminID,
		RunMode:     a.cfg.Telegram.RunMode,
		PollTimeout: time.Duration(a.cfg.Telegram.LongPollTimeoutSeconds) * time.Second,
		Webhook: telegram.WebhookOptions{
			Listen: a.cfg.Webhook.Listen,
			Port:   a.cfg.Webhook.Port,
			URL:    a.cfg.Webhook.URL,
		},
		RateLimit:    a.cfg.RateLimit,
		Recorder:     a.rec,
		StateManager: a.states,
		Registry:     a.registry,
		OnReady: func(bot *tele.Bot) error {
			a.notify = sender.New(bot, sender.Options{
				QueueSize: a.cfg.Bot.NotifyQueue,
			})
			a.handlers.SetNotifier(a.notify)
			return nil
		},
	})
}

// Close drains the outbound notification queue.
func (a *App) Close(ctx context.Context) error {
	if a.notify == nil {
		return nil
	}
	if err := a.notify.Close(ctx); err != nil {
		return fmt.Errorf("drain notifier: %w", err)
	}
	return nil
}
