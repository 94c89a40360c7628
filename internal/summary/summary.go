package summary

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Karan545/hyperliquid-pnl-tracker/internal/models"
)

// AssetSummary aggregates the fills of one instrument within a report.
// Monetary totals are accumulated as decimals so repeated small fees
// do not drift.
type AssetSummary struct {
	Asset     string
	Fills     int
	Buys      int
	Sells     int
	Volume    decimal.Decimal // total base size traded
	Fees      decimal.Decimal
	ClosedPnl decimal.Decimal
	Winners   int // fills with positive closed P&L
	Losers    int // fills with negative closed P&L
	WinRate   float64
}

// Aggregate groups report rows by asset, in first-appearance order.
// Fills with zero closed P&L (position-opening fills) count toward
// neither winners nor losers.
func Aggregate(rows []models.CanonicalFill) []AssetSummary {
	byAsset := make(map[string]*AssetSummary)
	var order []string

	for _, r := range rows {
		agg, ok := byAsset[r.Asset]
		if !ok {
			agg = &AssetSummary{Asset: r.Asset}
			byAsset[r.Asset] = agg
			order = append(order, r.Asset)
		}

		agg.Fills++
		if r.Side == models.SideBuy {
			agg.Buys++
		} else {
			agg.Sells++
		}

		agg.Volume = agg.Volume.Add(decimal.NewFromFloat(r.Size))
		agg.Fees = agg.Fees.Add(decimal.NewFromFloat(r.Fee))

		pnl := decimal.NewFromFloat(r.ClosedPnl)
		agg.ClosedPnl = agg.ClosedPnl.Add(pnl)
		switch pnl.Sign() {
		case 1:
			agg.Winners++
		case -1:
			agg.Losers++
		}
	}

	summaries := make([]AssetSummary, 0, len(order))
	for _, asset := range order {
		agg := byAsset[asset]
		if agg.Winners+agg.Losers > 0 {
			agg.WinRate = float64(agg.Winners) / float64(agg.Winners+agg.Losers) * 100
		}
		summaries = append(summaries, *agg)
	}

	return summaries
}

// PrintTable prints summaries as a formatted ASCII table with a totals
// row.
func PrintTable(w io.Writer, summaries []AssetSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "ASSET\tFILLS\tB/S\tVOLUME\tFEES\tCLOSED P&L\tWIN%%\n")
	fmt.Fprintf(tw, "─────\t─────\t───\t──────\t────\t──────────\t────\n")

	var totFills, totWin, totLoss int
	totFees := decimal.Zero
	totPnl := decimal.Zero

	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d/%d\t%s\t%s\t%s\t%.0f%%\n",
			s.Asset,
			s.Fills,
			s.Buys, s.Sells,
			s.Volume.String(),
			s.Fees.StringFixed(2),
			formatPnl(s.ClosedPnl),
			s.WinRate,
		)

		totFills += s.Fills
		totWin += s.Winners
		totLoss += s.Losers
		totFees = totFees.Add(s.Fees)
		totPnl = totPnl.Add(s.ClosedPnl)
	}

	fmt.Fprintf(tw, "─────\t─────\t───\t──────\t────\t──────────\t────\n")

	winRate := 0.0
	if totWin+totLoss > 0 {
		winRate = float64(totWin) / float64(totWin+totLoss) * 100
	}

	fmt.Fprintf(tw, "TOTAL\t%d\t\t\t%s\t%s\t%.0f%%\n",
		totFills,
		totFees.StringFixed(2),
		formatPnl(totPnl),
		winRate,
	)

	tw.Flush()
}

// ExportCSV writes summaries as CSV.
func ExportCSV(w io.Writer, summaries []AssetSummary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{
		"asset", "fills", "buys", "sells", "volume", "fees",
		"closed_pnl", "winners", "losers", "win_rate",
	}); err != nil {
		return err
	}

	for _, s := range summaries {
		if err := cw.Write([]string{
			s.Asset,
			strconv.Itoa(s.Fills),
			strconv.Itoa(s.Buys),
			strconv.Itoa(s.Sells),
			s.Volume.String(),
			s.Fees.String(),
			s.ClosedPnl.String(),
			strconv.Itoa(s.Winners),
			strconv.Itoa(s.Losers),
			fmt.Sprintf("%.1f", s.WinRate),
		}); err != nil {
			return err
		}
	}

	return nil
}

func formatPnl(v decimal.Decimal) string {
	if v.Sign() >= 0 {
		return "+$" + v.StringFixed(2)
	}
	return "-$" + v.Neg().StringFixed(2)
}
