package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RawFill is a single fill record as returned by the Hyperliquid info
// endpoint. The API makes no type guarantees: numeric fields arrive as
// JSON numbers or numeric strings, and any field may be absent or null,
// so the record is kept as a loose map until normalization.
type RawFill map[string]any

// TimestampMillis extracts the fill's epoch-millisecond timestamp.
// Returns false when the "time" field is missing or not convertible to
// an integer; such records are excluded from reports rather than
// treated as errors.
func (f RawFill) TimestampMillis() (int64, bool) {
	switch v := f["time"].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if fv, err := v.Float64(); err == nil {
			return int64(fv), true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// Side is the direction of a fill.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// CanonicalFill is the validated, typed projection of a RawFill.
type CanonicalFill struct {
	TimestampMillis int64   `json:"timestampMillis"`
	Date            string  `json:"date"` // yyyy-mm-dd, local time
	Time            string  `json:"time"` // hh:mm:ss, local time
	Asset           string  `json:"asset"`
	Side            Side    `json:"side"`
	Price           float64 `json:"price"`
	Size            float64 `json:"size"`
	Fee             float64 `json:"fee"`
	ClosedPnl       float64 `json:"closedPnl"`
}

// TimeWindow is a closed interval of epoch milliseconds. Both bounds
// are inclusive.
type TimeWindow struct {
	FromMillis int64 `json:"fromMillis"`
	ToMillis   int64 `json:"toMillis"`
}

// Contains reports whether ts lies within the window.
func (w TimeWindow) Contains(ts int64) bool {
	return ts >= w.FromMillis && ts <= w.ToMillis
}

// WindowFromDates builds a window spanning from the start of the
// "from" calendar day (00:00:00.000 local) to the last millisecond of
// the "to" calendar day. An inverted range is accepted and simply
// matches nothing.
func WindowFromDates(from, to time.Time) TimeWindow {
	start := startOfDay(from)
	end := startOfDay(to).AddDate(0, 0, 1)
	return TimeWindow{FromMillis: start.UnixMilli(), ToMillis: end.UnixMilli() - 1}
}

// WindowFromLookback builds a window covering the last days calendar
// days ending at the end of now's day. days=1 means today only.
func WindowFromLookback(now time.Time, days int) TimeWindow {
	return WindowFromDates(now.AddDate(0, 0, -(days-1)), now)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Report is the finished fill table for one wallet and window.
type Report struct {
	Wallet      string          `json:"wallet"`
	Window      TimeWindow      `json:"window"`
	Rows        []CanonicalFill `json:"rows"`
	RowCount    int             `json:"row_count"`
	SkippedRows int             `json:"skipped_rows"` // dropped for missing/bad timestamps
}
