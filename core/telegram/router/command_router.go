// Package router binds registered commands, callbacks, and text flows to
// the bot with uniform summary logging around every handler.
package router

import (
	"context"
	"log/slog"
	"sort"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram/commands"
)

// BindCommands attaches every registered command (and its aliases) to the
// bot, each wrapped with the summary logger. AdminOnly commands are silently
// ignored for everyone but adminID.
func BindCommands(bot *tele.Bot, cmds map[string]commands.Command, adminID int64, rec metrics.Recorder) {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := cmds[name]
		h := cmd.Handler
		if cmd.AdminOnly {
			h = requireAdmin(adminID, h)
		}
		wrapped := handleWithSummary("cmd:"+name, rec, h)
		bot.Handle(name, wrapped)
		for _, alias := range cmd.Aliases {
			bot.Handle(alias, wrapped)
		}
	}

	summary, truncated := logger.SummarizeStrings(names, 10)
	logger.Info(context.Background(), "tg.wire", "commands.bound",
		slog.Int("count", len(names)),
		slog.String("commands", summary),
		slog.Bool("truncated", truncated),
	)
}

func requireAdmin(adminID int64, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if adminID == 0 || sender == nil || sender.ID != adminID {
			return nil
		}
		return next(c)
	}
}
