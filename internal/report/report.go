package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Karan545/hyperliquid-pnl-tracker/internal/api"
	"github.com/Karan545/hyperliquid-pnl-tracker/internal/models"
)

// Kind classifies why a report could not be built.
type Kind int

const (
	// TransportFailure covers network errors, non-success statuses and
	// unparseable response bodies.
	TransportFailure Kind = iota
	// UpstreamRejected means the API returned a structured error
	// payload; its message is surfaced verbatim.
	UpstreamRejected
	// MalformedUpstreamResponse means the response shape violated the
	// API contract (neither a fill list nor an error object).
	MalformedUpstreamResponse
	// NoFillsForWallet means the wallet has an empty trade history.
	NoFillsForWallet
	// NoFillsInWindow means the wallet has history but none of it
	// falls inside the requested window.
	NoFillsInWindow
)

// Error is the single failure type returned by the builder. There is
// never a partial report: callers get either a complete Report or an
// Error.
type Error struct {
	Kind   Kind
	Wallet string
	Msg    string // upstream message, UpstreamRejected only
	Cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case UpstreamRejected:
		return fmt.Sprintf("upstream rejected request for wallet %s: %s", e.Wallet, e.Msg)
	case MalformedUpstreamResponse:
		return fmt.Sprintf("malformed upstream response for wallet %s: check the wallet address", e.Wallet)
	case NoFillsForWallet:
		return fmt.Sprintf("no fills found for wallet %s", e.Wallet)
	case NoFillsInWindow:
		return fmt.Sprintf("no fills in the requested window for wallet %s", e.Wallet)
	default:
		return fmt.Sprintf("fetching fills for wallet %s: %v", e.Wallet, e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Normalization defaults for secondary fields. Missing or malformed
// values never fail a record; they take these values instead.
const (
	DefaultAsset           = ""
	DefaultSide            = models.SideSell
	DefaultNumeric float64 = 0
)

// FilterWindow keeps the fills whose timestamp parses to an integer
// inside the window, inclusive on both ends. Records with a missing or
// non-numeric timestamp are dropped and counted, never errored. The
// input slice is not modified and relative order is preserved.
func FilterWindow(fills []models.RawFill, w models.TimeWindow) (kept []models.RawFill, skipped int) {
	for _, f := range fills {
		ts, ok := f.TimestampMillis()
		if !ok {
			skipped++
			continue
		}
		if w.Contains(ts) {
			kept = append(kept, f)
		}
	}
	return kept, skipped
}

// Normalize projects a raw fill onto its canonical form. Secondary
// fields fall back to their documented defaults; only an unparseable
// timestamp drops the record (ok=false).
//
// The side mapping is deliberately binary: exactly "B" is a buy and
// every other code, including unknown future ones, is reported as a
// sell. Known limitation inherited from the upstream encoding.
func Normalize(raw models.RawFill) (models.CanonicalFill, bool) {
	ms, ok := raw.TimestampMillis()
	if !ok {
		return models.CanonicalFill{}, false
	}
	ts := time.UnixMilli(ms)

	return models.CanonicalFill{
		TimestampMillis: ms,
		Date:            ts.Format("2006-01-02"),
		Time:            ts.Format("15:04:05"),
		Asset:           stringField(raw, "coin"),
		Side:            sideFromCode(raw["side"]),
		Price:           floatField(raw, "px"),
		Size:            floatField(raw, "sz"),
		Fee:             floatField(raw, "fee"),
		ClosedPnl:       floatField(raw, "closedPnl"),
	}, true
}

func sideFromCode(v any) models.Side {
	if code, ok := v.(string); ok && code == "B" {
		return models.SideBuy
	}
	return DefaultSide
}

func stringField(f models.RawFill, key string) string {
	if s, ok := f[key].(string); ok {
		return s
	}
	return DefaultAsset
}

func floatField(f models.RawFill, key string) float64 {
	switch v := f[key].(type) {
	case json.Number:
		if n, err := v.Float64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return DefaultNumeric
}

// FillsFetcher is the upstream dependency of the builder, satisfied by
// *api.Client.
type FillsFetcher interface {
	UserFills(ctx context.Context, wallet string) ([]models.RawFill, error)
}

// Options controls report assembly.
type Options struct {
	// SortChronological re-sorts rows by timestamp ascending. The
	// default preserves upstream order, which the feed does not
	// guarantee to be chronological.
	SortChronological bool
}

// Builder assembles fill reports: fetch, filter, normalize.
type Builder struct {
	fetcher FillsFetcher
}

// NewBuilder creates a report builder on top of a fills source.
func NewBuilder(fetcher FillsFetcher) *Builder {
	return &Builder{fetcher: fetcher}
}

// Build produces the complete fill table for one wallet and window.
func (b *Builder) Build(ctx context.Context, wallet string, window models.TimeWindow, opts Options) (*models.Report, error) {
	raw, err := b.fetcher.UserFills(ctx, wallet)
	if err != nil {
		var apiErr *api.APIError
		switch {
		case errors.As(err, &apiErr):
			return nil, &Error{Kind: UpstreamRejected, Wallet: wallet, Msg: apiErr.Message, Cause: err}
		case errors.Is(err, api.ErrMalformedResponse):
			return nil, &Error{Kind: MalformedUpstreamResponse, Wallet: wallet, Cause: err}
		default:
			return nil, &Error{Kind: TransportFailure, Wallet: wallet, Cause: err}
		}
	}

	if len(raw) == 0 {
		return nil, &Error{Kind: NoFillsForWallet, Wallet: wallet}
	}

	kept, skipped := FilterWindow(raw, window)

	rows := make([]models.CanonicalFill, 0, len(kept))
	for _, f := range kept {
		row, ok := Normalize(f)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &Error{Kind: NoFillsInWindow, Wallet: wallet}
	}

	if opts.SortChronological {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].TimestampMillis < rows[j].TimestampMillis
		})
	}

	return &models.Report{
		Wallet:      wallet,
		Window:      window,
		Rows:        rows,
		RowCount:    len(rows),
		SkippedRows: skipped,
	}, nil
}
