package schedule

import (
	"testing"
	"time"

	"LeafPanel/utils"
)

func TestNextStepState(t *testing.T) {
	cooldown := time.Hour
	failInterval := time.Minute

	cases := []struct {
		name    string
		out     stepOutcome
		advance bool
		wait    time.Duration
	}{
		{"success consumes code and waits cooldown", stepOutcome{Success: true}, true, cooldown},
		{"failure consumes code with short interval", stepOutcome{}, true, failInterval},
		{"try-later keeps code and re-applies cooldown", stepOutcome{TryLater: true}, false, cooldown},
		{"try-later wins over success flag", stepOutcome{Success: true, TryLater: true}, false, cooldown},
	}

	for _, tc := range cases {
		advance, wait := nextStepState(tc.out, cooldown, failInterval)
		if advance != tc.advance {
			t.Errorf("%s: advance = %v, want %v", tc.name, advance, tc.advance)
		}
		if wait != tc.wait {
			t.Errorf("%s: wait = %v, want %v", tc.name, wait, tc.wait)
		}
	}
}

// 失败码的短间隔休眠期间手动兑换成功过：执行前复核的剩余冷却
// 必须盖过短间隔，步骤按剩余冷却推迟而不是立即执行
func TestRefreshedCooldownOutlivesFailInterval(t *testing.T) {
	cooldown := time.Hour
	failInterval := time.Minute
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	manualSuccess := now.Add(-30 * time.Second)
	remaining := utils.CooldownRemaining(&manualSuccess, cooldown, now)

	if remaining <= failInterval {
		t.Fatalf("remaining cooldown %v must exceed the fail interval %v", remaining, failInterval)
	}
	if want := cooldown - 30*time.Second; remaining != want {
		t.Fatalf("remaining = %v, want %v", remaining, want)
	}

	// 没有成功记录时不需要推迟
	if got := utils.CooldownRemaining(nil, cooldown, now); got > 0 {
		t.Fatalf("no prior success should leave no cooldown, got %v", got)
	}
}
