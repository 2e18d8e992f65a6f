package model

import "testing"

func TestBatchTaskStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BatchTaskStatus
		want     bool
	}{
		{BatchTaskStatusPending, BatchTaskStatusRunning, true},
		{BatchTaskStatusPending, BatchTaskStatusCancelled, true},
		{BatchTaskStatusPending, BatchTaskStatusPaused, false},
		{BatchTaskStatusRunning, BatchTaskStatusPaused, true},
		{BatchTaskStatusRunning, BatchTaskStatusCompleted, true},
		{BatchTaskStatusRunning, BatchTaskStatusCancelled, true},
		{BatchTaskStatusPaused, BatchTaskStatusRunning, true},
		{BatchTaskStatusPaused, BatchTaskStatusCancelled, true},
		{BatchTaskStatusPaused, BatchTaskStatusCompleted, false},
		{BatchTaskStatusCompleted, BatchTaskStatusRunning, false},
		{BatchTaskStatusCancelled, BatchTaskStatusRunning, false},
		{BatchTaskStatusCompleted, BatchTaskStatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestBatchTaskTerminal(t *testing.T) {
	if !BatchTaskStatusCompleted.IsTerminal() || !BatchTaskStatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled must be terminal")
	}
	if BatchTaskStatusRunning.IsTerminal() || BatchTaskStatusPaused.IsTerminal() {
		t.Fatal("running and paused must not be terminal")
	}
}

func TestBatchTaskProgressCounters(t *testing.T) {
	task := &BatchRedeemTask{TotalCount: 3, CurrentIndex: 1}
	if task.Finished() {
		t.Fatal("task with remaining codes reported finished")
	}
	if got := task.RemainingCodes(); got != 2 {
		t.Fatalf("remaining = %d, want 2", got)
	}

	task.CurrentIndex = 3
	if !task.Finished() {
		t.Fatal("task past last code not reported finished")
	}
	if got := task.RemainingCodes(); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}
