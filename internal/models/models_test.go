package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampMillis(t *testing.T) {
	tests := []struct {
		name string
		fill RawFill
		want int64
		ok   bool
	}{
		{"json number", RawFill{"time": json.Number("1706000000123")}, 1706000000123, true},
		{"json float", RawFill{"time": json.Number("1706000000123.9")}, 1706000000123, true},
		{"numeric string", RawFill{"time": "1706000000123"}, 1706000000123, true},
		{"padded string", RawFill{"time": " 1706000000123 "}, 1706000000123, true},
		{"float64", RawFill{"time": float64(1706000000123)}, 1706000000123, true},
		{"missing", RawFill{}, 0, false},
		{"nil record", RawFill(nil), 0, false},
		{"null", RawFill{"time": nil}, 0, false},
		{"non-numeric string", RawFill{"time": "yesterday"}, 0, false},
		{"bool", RawFill{"time": true}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fill.TimestampMillis()
			if ok != tt.ok || got != tt.want {
				t.Errorf("TimestampMillis() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWindowFromDates(t *testing.T) {
	from := time.Date(2025, 1, 1, 10, 30, 0, 0, time.Local)
	to := time.Date(2025, 1, 31, 4, 0, 0, 0, time.Local)
	w := WindowFromDates(from, to)

	wantFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	if w.FromMillis != wantFrom {
		t.Errorf("FromMillis = %d, want start of Jan 1 (%d)", w.FromMillis, wantFrom)
	}

	lastMilli := time.Date(2025, 1, 31, 23, 59, 59, 999_000_000, time.Local).UnixMilli()
	if w.ToMillis != lastMilli {
		t.Errorf("ToMillis = %d, want last millisecond of Jan 31 (%d)", w.ToMillis, lastMilli)
	}

	// End-of-day inclusive, next midnight excluded.
	inside := time.Date(2025, 1, 31, 23, 59, 59, 500_000_000, time.Local).UnixMilli()
	if !w.Contains(inside) {
		t.Errorf("window should contain Jan 31 23:59:59.500")
	}
	outside := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	if w.Contains(outside) {
		t.Errorf("window should not contain Feb 1 00:00:00.000")
	}
}

func TestWindowFromDatesInverted(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	w := WindowFromDates(from, to)

	if w.FromMillis <= w.ToMillis {
		t.Fatalf("inverted range should produce an empty window, got [%d, %d]", w.FromMillis, w.ToMillis)
	}
	if w.Contains(time.Date(2025, 3, 5, 12, 0, 0, 0, time.Local).UnixMilli()) {
		t.Errorf("inverted window should match nothing")
	}
}

func TestWindowFromLookback(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.Local)

	// days=1 covers exactly today.
	w := WindowFromLookback(now, 1)
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local).UnixMilli()
	if w.FromMillis != start {
		t.Errorf("1-day lookback FromMillis = %d, want %d", w.FromMillis, start)
	}
	if !w.Contains(now.UnixMilli()) {
		t.Errorf("1-day lookback should contain now")
	}

	w = WindowFromLookback(now, 7)
	weekAgoStart := time.Date(2025, 6, 9, 0, 0, 0, 0, time.Local).UnixMilli()
	if w.FromMillis != weekAgoStart {
		t.Errorf("7-day lookback FromMillis = %d, want %d", w.FromMillis, weekAgoStart)
	}
	if w.Contains(weekAgoStart - 1) {
		t.Errorf("7-day lookback should exclude the millisecond before its start")
	}
}
