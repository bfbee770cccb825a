package router

import (
	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/core/telegram/state"
)

// BindTextFlows installs an OnText dispatcher that routes plain text to
// the handler for the sender's current flow. Text outside any flow goes
// to fallback when provided, otherwise it is ignored.
func BindTextFlows(bot *tele.Bot, mgr *state.Manager, flows map[state.Flow]tele.HandlerFunc, fallback tele.HandlerFunc, rec metrics.Recorder) {
	wrapped := make(map[state.Flow]tele.HandlerFunc, len(flows))
	for flow, h := range flows {
		wrapped[flow] = handleWithSummary("flow:"+string(flow), rec, h)
	}
	var wrappedFallback tele.HandlerFunc
	if fallback != nil {
		wrappedFallback = handleWithSummary("flow:fallback", rec, fallback)
	}

	bot.Handle(tele.OnText, func(c tele.Context) error {
		sender := c.Sender()
		if sender != nil {
			if h, ok := wrapped[mgr.Flow(sender.ID)]; ok {
				return h(c)
			}
		}
		if wrappedFallback != nil {
			return wrappedFallback(c)
		}
		return nil
	})
}
