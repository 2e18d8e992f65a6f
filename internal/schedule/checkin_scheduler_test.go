package schedule

import (
	"math/rand"
	"testing"
	"time"

	"LeafPanel/internal/model"
)

var cst = time.FixedZone("CST", 8*3600)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, cst)
}

func TestCheckinWindowFallback(t *testing.T) {
	settings := &model.CheckinSettings{CheckinTime: "07:00"}

	start, end := checkinWindow(&model.Account{CheckinTimeStart: "06:30", CheckinTimeEnd: "06:40"}, settings)
	if start != "06:30" || end != "06:40" {
		t.Fatalf("expected account window, got %s-%s", start, end)
	}

	start, end = checkinWindow(&model.Account{}, settings)
	if start != "07:00" {
		t.Fatalf("expected global start 07:00, got %s", start)
	}
	if end != "23:59" {
		t.Fatalf("expected open end 23:59, got %s", end)
	}
}

func TestCheckinDoneBlocksDay(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, cst)

	// 失败的签到不更新账号日期标记，只靠当日历史记录挡住重复调度
	failed := &model.Account{}
	if !checkinDone(failed, day, true) {
		t.Fatal("account with a failed record today must not be scheduled again")
	}

	succeeded := &model.Account{LastCheckinDate: &day}
	if !checkinDone(succeeded, day, false) {
		t.Fatal("account marked checked-in today must not be scheduled again")
	}

	if checkinDone(&model.Account{}, day, false) {
		t.Fatal("untouched account should still be schedulable")
	}

	yesterday := day.AddDate(0, 0, -1)
	if checkinDone(&model.Account{LastCheckinDate: &yesterday}, day, false) {
		t.Fatal("yesterday's marker must not block today")
	}
}

func TestAttemptDue(t *testing.T) {
	now := at(6, 35)

	if !attemptDue(now, time.Time{}, 60) {
		t.Fatal("first attempt of the day must be due")
	}
	if attemptDue(now, now.Add(-30*time.Second), 60) {
		t.Fatal("attempt inside the check interval must be throttled")
	}
	if !attemptDue(now, now.Add(-60*time.Second), 60) {
		t.Fatal("attempt past the check interval must be due")
	}
	// 间隔没配置时退回 60 秒
	if attemptDue(now, now.Add(-30*time.Second), 0) {
		t.Fatal("zero interval must fall back to the 60s default")
	}
}

func TestCheckinDue(t *testing.T) {
	account := &model.Account{CheckinTimeStart: "06:30", CheckinTimeEnd: "06:40"}
	settings := &model.CheckinSettings{CheckinTime: "07:00"}

	cases := []struct {
		name  string
		now   time.Time
		delay int
		want  bool
	}{
		{"before window", at(6, 29), 0, false},
		{"window start", at(6, 30), 0, true},
		{"inside window", at(6, 35), 0, true},
		{"after window", at(6, 41), 0, false},
		{"delay not reached", at(6, 31), 120, false},
		{"delay reached", at(6, 33), 120, true},
	}

	for _, tc := range cases {
		got, err := checkinDue(tc.now, account, settings, tc.delay, cst)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: due = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCheckinDueInvertedWindow(t *testing.T) {
	account := &model.Account{CheckinTimeStart: "08:00", CheckinTimeEnd: "07:00"}
	settings := &model.CheckinSettings{CheckinTime: "07:00"}

	if _, err := checkinDue(at(7, 30), account, settings, 0, cst); err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestDrawDelay(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if d := drawDelay(rng, 0, 0); d != 0 {
		t.Fatalf("no delay configured, got %d", d)
	}
	if d := drawDelay(rng, 30, 30); d != 30 {
		t.Fatalf("fixed delay, got %d", d)
	}
	if d := drawDelay(rng, 60, 30); d != 0 {
		t.Fatalf("inverted range should yield 0, got %d", d)
	}

	for i := 0; i < 100; i++ {
		d := drawDelay(rng, 10, 50)
		if d < 10 || d > 50 {
			t.Fatalf("delay %d outside [10, 50]", d)
		}
	}
}
