package state

import (
	"testing"
	"time"
)

const flowTest Flow = "test_flow"

func TestManagerSetGetClear(t *testing.T) {
	m := NewManager()

	if got := m.Flow(1); got != FlowNone {
		t.Fatalf("fresh manager Flow = %q, want none", got)
	}

	m.SetFlow(1, flowTest, map[string]string{"k": "v"})
	s := m.Get(1)
	if s.Flow != flowTest || s.Data["k"] != "v" {
		t.Fatalf("Get = %+v, want flow %q with data", s, flowTest)
	}
	if s.UpdatedAt.IsZero() {
		t.Fatal("Set must stamp UpdatedAt")
	}

	m.Clear(1)
	if m.Flow(1) != FlowNone || m.Len() != 0 {
		t.Fatal("Clear must remove the state")
	}
}

func TestManagerSetFlowReplaces(t *testing.T) {
	m := NewManager()
	m.SetFlow(1, flowTest, map[string]string{"k": "v"})
	m.SetFlow(1, "other", nil)

	s := m.Get(1)
	if s.Flow != "other" || s.Data != nil {
		t.Fatalf("SetFlow must replace previous state, got %+v", s)
	}
}

func TestManagerSweep(t *testing.T) {
	m := NewManager()
	m.SetFlow(1, flowTest, nil)
	m.SetFlow(2, flowTest, nil)

	if removed := m.Sweep(time.Hour); removed != 0 {
		t.Fatalf("Sweep removed %d fresh states, want 0", removed)
	}
	time.Sleep(2 * time.Millisecond)
	if removed := m.Sweep(time.Millisecond); removed != 2 {
		t.Fatalf("Sweep removed %d stale states, want 2", removed)
	}
	if m.Len() != 0 {
		t.Fatal("Sweep must leave the map empty")
	}
}
