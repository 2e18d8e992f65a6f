package utils

import (
	"testing"
	"time"
)

var shanghai = time.FixedZone("CST", 8*3600)

func TestParseTime(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, shanghai)

	got, err := ParseTime("06:30", date)
	if err != nil {
		t.Fatalf("HH:MM format: %v", err)
	}
	if got.Hour() != 6 || got.Minute() != 30 || got.Day() != 15 {
		t.Fatalf("ParseTime HH:MM = %v", got)
	}

	got, err = ParseTime("20:00:05", date)
	if err != nil {
		t.Fatalf("HH:MM:SS format: %v", err)
	}
	if got.Hour() != 20 || got.Second() != 5 {
		t.Fatalf("ParseTime HH:MM:SS = %v", got)
	}

	if _, err := ParseTime("25:99", date); err == nil {
		t.Fatal("invalid time should fail")
	}

	got, err = ParseTime("", date)
	if err != nil || !got.Equal(date) {
		t.Fatalf("empty string should return date unchanged: %v, %v", got, err)
	}
}

func TestServiceDay(t *testing.T) {
	// UTC 2026-03-14 18:30 是上海的 2026-03-15 02:30
	utc := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	day := ServiceDay(utc, shanghai)
	if day.Year() != 2026 || day.Month() != 3 || day.Day() != 15 {
		t.Fatalf("ServiceDay = %v, want 2026-03-15", day)
	}
	if day.Hour() != 0 || day.Minute() != 0 {
		t.Fatalf("ServiceDay not midnight: %v", day)
	}

	if got := ServiceDayString(utc, shanghai); got != "2026-03-15" {
		t.Fatalf("ServiceDayString = %q", got)
	}
}

func TestInWindow(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 15, h, m, 0, 0, shanghai)
	}

	cases := []struct {
		now    time.Time
		want   bool
	}{
		{at(6, 30), true},
		{at(6, 35), true},
		{at(6, 40), true},
		{at(6, 29), false},
		{at(6, 41), false},
	}
	for _, tc := range cases {
		got, err := InWindow(tc.now, "06:30", "06:40", shanghai)
		if err != nil {
			t.Fatalf("InWindow(%v): %v", tc.now, err)
		}
		if got != tc.want {
			t.Errorf("InWindow(%v) = %v, want %v", tc.now, got, tc.want)
		}
	}

	if _, err := InWindow(at(6, 30), "07:00", "06:00", shanghai); err == nil {
		t.Fatal("inverted window should fail")
	}
}
