// Package state tracks per-user conversational flow in memory.
//
// The bot is single-process, so a mutex-guarded map is enough. State is
// advisory: losing it on restart only means the user has to tap a button
// again.
package state

import (
	"sync"
	"time"
)

// Manager stores per-user flow state keyed by Telegram user ID.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewManager creates an empty state manager.
func NewManager() *Manager {
	return &Manager{states: make(map[int64]State)}
}

// Get returns the current state for a user. Zero State when none.
func (m *Manager) Get(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[userID]
}

// Flow returns just the current flow for a user.
func (m *Manager) Flow(userID int64) Flow {
	return m.Get(userID).Flow
}

// Set replaces the state for a user.
func (m *Manager) Set(userID int64, s State) {
	s.UpdatedAt = time.Now()
	m.mu.Lock()
	m.states[userID] = s
	m.mu.Unlock()
}

// SetFlow enters a flow with optional data, replacing previous state.
func (m *Manager) SetFlow(userID int64, flow Flow, data map[string]string) {
	m.Set(userID, State{Flow: flow, Data: data})
}

// Clear removes any state for a user.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	delete(m.states, userID)
	m.mu.Unlock()
}

// Sweep drops states older than maxAge and returns how many were removed.
func (m *Manager) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.states {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.states, id)
			removed++
		}
	}
	return removed
}

// Len reports how many users currently hold state.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
