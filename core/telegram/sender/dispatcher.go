// Package sender delivers outbound messages asynchronously so handlers
// never block on the Telegram API for side notifications.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/telegram/netutil"
)

// API is the subset of the bot client the dispatcher needs.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type job struct {
	chatID int64
	text   string
	opts   []interface{}
}

// Dispatcher queues outbound messages and delivers them from a single
// worker goroutine with retry on transient failures.
type Dispatcher struct {
	api      API
	queue    chan job
	retries  int
	backoff  time.Duration
	done     chan struct{}
	shutdown chan struct{}
}

// Options tunes the dispatcher. Zero values get sane defaults.
type Options struct {
	QueueSize int
	Retries   int
	Backoff   time.Duration
}

// New creates a dispatcher and starts its worker.
func New(api API, opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	d := &Dispatcher{
		api:      api,
		queue:    make(chan job, opts.QueueSize),
		retries:  opts.Retries,
		backoff:  opts.Backoff,
		done:     make(chan struct{}),
		shutdown: make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify enqueues a message to the given chat. Returns false when the
// queue is full or the dispatcher is shutting down; the message is dropped.
func (d *Dispatcher) Notify(chatID int64, text string, opts ...interface{}) bool {
	select {
	case <-d.shutdown:
		return false
	default:
	}
	select {
	case d.queue <- job{chatID: chatID, text: text, opts: opts}:
		return true
	default:
		logger.Warn(context.Background(), "tg", "sender.queue_full",
			slog.Int64("chat_id", chatID),
		)
		return false
	}
}

// Close stops accepting new messages, drains the queue, and waits for
// the worker to finish or the context to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	close(d.shutdown)
	close(d.queue)
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx := context.Background()
	var lastErr error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.backoff * time.Duration(attempt))
		}
		_, err := d.api.Send(tele.ChatID(j.chatID), j.text, j.opts...)
		if err == nil {
			if attempt > 0 {
				logger.Info(ctx, "tg", "sender.delivered",
					slog.Int64("chat_id", j.chatID),
					slog.Int("attempts", attempt+1),
				)
			}
			return
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	logger.Error(ctx, "tg", "sender.failed",
		slog.Int64("chat_id", j.chatID),
		slog.String("err_code", classify(lastErr)),
		slog.String("err", lastErr.Error()),
	)
}

func retryable(err error) bool {
	if netutil.ShouldRetry(err) {
		return true
	}
	var flood *tele.FloodError
	if errors.As(err, &flood) {
		if flood.RetryAfter > 0 && flood.RetryAfter <= 30 {
			time.Sleep(time.Duration(flood.RetryAfter) * time.Second)
		}
		return true
	}
	return false
}

func classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tele.ErrBlockedByUser):
		return "BLOCKED"
	case errors.Is(err, tele.ErrChatNotFound):
		return "CHAT_NOT_FOUND"
	case strings.Contains(err.Error(), "deactivated"):
		return "DEACTIVATED"
	default:
		return "SEND_FAIL"
	}
}
