// Package commands declares the descriptor the registry binds slash
// commands from.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command couples a handler with how the command is published and gated.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly commands only run for the configured admin id.
	AdminOnly bool
	// Hidden commands work but stay out of the published command menu.
	Hidden bool
	// Aliases are extra endpoints bound to the same handler.
	Aliases []string
}

// Visible reports whether the command belongs in the public command menu.
func (c Command) Visible() bool {
	return !c.Hidden && !c.AdminOnly
}
