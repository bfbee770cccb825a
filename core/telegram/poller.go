package telegram

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/graphenelabs/graphbot/core/config"
)

// Update kinds the bot handles; everything else is filtered on the
// Telegram side for both run modes.
var allowedUpdates = []string{"message", "callback_query", "my_chat_member"}

// WebhookOptions declares the webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions selects and configures the update source.
type PollerOptions struct {
	RunMode string
	Timeout time.Duration
	Webhook WebhookOptions
}

// NewPoller returns the poller for the configured run mode: a webhook
// listener when run_mode is "webhook", a long poller otherwise.
func NewPoller(opts PollerOptions) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(opts.RunMode), coreconfig.RunModeWebhook) {
		return &tele.Webhook{
			Listen:         fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			AllowedUpdates: allowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &tele.LongPoller{
		Timeout:        timeout,
		AllowedUpdates: allowedUpdates,
	}
}
