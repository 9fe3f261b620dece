// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package weekkey

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"monday start", date(2026, time.October, 12, 0, 0), "2026-W42"},
		{"sunday end", date(2026, time.October, 18, 23, 59), "2026-W42"},
		{"next monday", date(2026, time.October, 19, 0, 0), "2026-W43"},
		{"new year thursday", date(2026, time.January, 1, 12, 0), "2026-W01"},
		{"week 53", date(2027, time.January, 1, 8, 0), "2026-W53"},
		{"december in next year's week 1", date(2024, time.December, 30, 9, 0), "2025-W01"},
		{"january in previous year's week 53", date(2021, time.January, 3, 22, 0), "2020-W53"},
		{"zero padded", date(2026, time.February, 3, 0, 0), "2026-W06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.at); got != tt.want {
				t.Errorf("Key(%v) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}

func TestKey_StableWithinWeek(t *testing.T) {
	start := date(2026, time.October, 12, 0, 0)
	want := Key(start)

	for h := 0; h < 7*24; h++ {
		at := start.Add(time.Duration(h)*time.Hour + 59*time.Minute)
		if got := Key(at); got != want {
			t.Fatalf("Key(%v) = %s, want %s", at, got, want)
		}
	}

	if Key(start.Add(-time.Nanosecond)) == want {
		t.Error("Key should change exactly at the Monday boundary (before)")
	}
	if Key(start.AddDate(0, 0, 7)) == want {
		t.Error("Key should change exactly at the Monday boundary (after)")
	}
}

func TestCalendar_Location(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	cal := Calendar{Location: tokyo}

	// Sunday 20:00 UTC is already Monday 05:00 in Tokyo
	at := date(2026, time.October, 18, 20, 0)

	if got := UTC.Key(at); got != "2026-W42" {
		t.Errorf("UTC key = %s, want 2026-W42", got)
	}
	if got := cal.Key(at); got != "2026-W43" {
		t.Errorf("Tokyo key = %s, want 2026-W43", got)
	}
	if got := cal.Date(at); got != "2026-10-19" {
		t.Errorf("Tokyo date = %s, want 2026-10-19", got)
	}
	if got := UTC.Date(at); got != "2026-10-18" {
		t.Errorf("UTC date = %s, want 2026-10-18", got)
	}
}

func TestCalendar_ZeroValueIsUTC(t *testing.T) {
	var cal Calendar
	at := date(2026, time.October, 17, 12, 0)
	if cal.Key(at) != UTC.Key(at) {
		t.Error("zero Calendar should behave like UTC")
	}
}

func TestNewCalendar(t *testing.T) {
	cal, err := NewCalendar("")
	if err != nil {
		t.Fatalf("NewCalendar(\"\") error = %v", err)
	}
	if cal.Location != time.UTC {
		t.Errorf("expected UTC location, got %v", cal.Location)
	}

	if _, err := NewCalendar("Not/AZone"); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		key       string
		wantStart time.Time
	}{
		{"2026-W42", date(2026, time.October, 12, 0, 0)},
		{"2026-W01", date(2025, time.December, 29, 0, 0)},
		{"2026-W53", date(2026, time.December, 28, 0, 0)},
		{"2025-W01", date(2024, time.December, 30, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			start, end, err := UTC.Bounds(tt.key)
			if err != nil {
				t.Fatalf("Bounds(%s) error = %v", tt.key, err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("end = %v, want one week after start", end)
			}
			// Round trip: every instant in the interval maps back to key
			if Key(start) != tt.key || Key(end.Add(-time.Second)) != tt.key {
				t.Errorf("bounds of %s do not map back to the same key", tt.key)
			}
			if Key(end) == tt.key {
				t.Errorf("end of %s should be the next week", tt.key)
			}
		})
	}
}

func TestParse(t *testing.T) {
	valid := []string{"2026-W01", "2026-W42", "2026-W53", "2020-W53"}
	for _, key := range valid {
		if _, _, err := Parse(key); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", key, err)
		}
	}

	invalid := []string{
		"",
		"2026-42",
		"2026-W00",
		"2025-W53", // 2025 has 52 ISO weeks
		"2026-W54",
		"2026W042",
		"2026-w42",
		"2026-W+5",
		"abcd-W01",
		"2026-W042",
	}
	for _, key := range invalid {
		_, _, err := Parse(key)
		if err == nil {
			t.Errorf("Parse(%q) expected error", key)
			continue
		}
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Parse(%q) error should wrap ErrInvalidKey, got %v", key, err)
		}
	}

	year, week, _ := Parse("2026-W07")
	if year != 2026 || week != 7 {
		t.Errorf("Parse(2026-W07) = %d, %d", year, week)
	}
}

func TestStartOfDay(t *testing.T) {
	at := date(2026, time.October, 17, 15, 30)
	got := UTC.StartOfDay(at)
	if !got.Equal(date(2026, time.October, 17, 0, 0)) {
		t.Errorf("StartOfDay = %v", got)
	}
}
