package telegram

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/telegram/commands"
	"github.com/graphenelabs/graphbot/core/telegram/state"
)

// Registry collects everything the application layer wants bound to the
// bot before it starts polling.
type Registry struct {
	Commands  map[string]commands.Command
	Callbacks map[string]tele.HandlerFunc
	TextFlows map[state.Flow]tele.HandlerFunc
	// TextFallback handles plain text outside any flow. Optional.
	TextFallback tele.HandlerFunc
}

// NewRegistry returns an empty registry ready for registration.
func NewRegistry() *Registry {
	return &Registry{
		Commands:  make(map[string]commands.Command),
		Callbacks: make(map[string]tele.HandlerFunc),
		TextFlows: make(map[state.Flow]tele.HandlerFunc),
	}
}

// RegisterCommand adds a command under its endpoint, e.g. "/start".
func (r *Registry) RegisterCommand(endpoint string, cmd commands.Command) {
	r.Commands[endpoint] = cmd
}

// RegisterCallback adds a callback handler under its unique key.
func (r *Registry) RegisterCallback(unique string, h tele.HandlerFunc) {
	r.Callbacks[unique] = h
}

// RegisterTextFlow adds a plain-text handler for a conversational flow.
func (r *Registry) RegisterTextFlow(flow state.Flow, h tele.HandlerFunc) {
	r.TextFlows[flow] = h
}

// InitBotCommands publishes the visible command list to Telegram so
// clients can show the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) error {
	var list []tele.Command
	for endpoint, cmd := range reg.Commands {
		if !cmd.Visible() {
			continue
		}
		list = append(list, tele.Command{
			Text:        strings.TrimPrefix(endpoint, "/"),
			Description: cmd.Description,
		})
	}
	if len(list) == 0 {
		return nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	if err := bot.SetCommands(list); err != nil {
		return err
	}
	logger.Info(context.Background(), "tg.wire", "commands.published",
		slog.Int("count", len(list)),
	)
	return nil
}
