package model

import "testing"

func TestTaskTable(t *testing.T) {
	rewards := map[TaskKind]int64{
		TaskConnectWallet: 10,
		TaskJoinChannel:   15,
		TaskFollowTwitter: 15,
		TaskInviteFriend:  30,
		TaskCompleteQuiz:  30,
	}
	if len(TaskKinds) != len(rewards) {
		t.Fatalf("TaskKinds has %d entries, want %d", len(TaskKinds), len(rewards))
	}
	for _, k := range TaskKinds {
		if !k.Valid() {
			t.Errorf("%s must be a valid kind", k)
		}
		if k.Title() == "" {
			t.Errorf("%s has no title", k)
		}
		if k.Reward() != rewards[k] {
			t.Errorf("%s reward = %d, want %d", k, k.Reward(), rewards[k])
		}
	}
	if TaskKind("dance").Valid() {
		t.Error("unknown kind must not be valid")
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 5, 0},
		{1, 5, 20},
		{2, 5, 40},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
	}
	for _, tc := range cases {
		p := Progress{Completed: tc.completed, Total: tc.total}
		if got := p.Percent(); got != tc.want {
			t.Errorf("Percent(%d/%d) = %d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestProgressAllDone(t *testing.T) {
	if (Progress{Completed: 0, Total: 0}).AllDone() {
		t.Error("empty checklist must not count as done")
	}
	if (Progress{Completed: 4, Total: 5}).AllDone() {
		t.Error("4/5 must not count as done")
	}
	if !(Progress{Completed: 5, Total: 5}).AllDone() {
		t.Error("5/5 must count as done")
	}
}
