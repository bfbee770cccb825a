package state

import "time"

// Flow identifies what kind of input the bot currently expects from a user.
type Flow string

const (
	// FlowNone means no pending conversational input.
	FlowNone Flow = ""
)

// State is the per-user conversational state.
type State struct {
	Flow      Flow
	Data      map[string]string
	UpdatedAt time.Time
}

// Value returns a data field, or "" when absent.
func (s State) Value(key string) string {
	if s.Data == nil {
		return ""
	}
	return s.Data[key]
}
