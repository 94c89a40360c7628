package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Karan545/hyperliquid-pnl-tracker/internal/models"
)

var csvHeader = []string{"Date", "Time", "Asset", "Side", "Price", "Size", "Fee", "Closed P&L"}

const rowTimeFmt = "2006-01-02 15:04:05"

// WriteCSV renders the report rows as UTF-8 comma-separated text with
// a fixed header. Numeric columns use plain decimal formatting so the
// export stays machine-readable.
func WriteCSV(w io.Writer, rep *models.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rep.Rows {
		if err := cw.Write([]string{
			r.Date,
			r.Time,
			r.Asset,
			string(r.Side),
			formatFloat(r.Price),
			formatFloat(r.Size),
			formatFloat(r.Fee),
			formatFloat(r.ClosedPnl),
		}); err != nil {
			return err
		}
	}

	return cw.Error()
}

// ParseCSV reads an export produced by WriteCSV back into canonical
// fills. Timestamps are reconstructed from the Date and Time columns,
// so sub-second precision is lost.
func ParseCSV(r io.Reader) ([]models.CanonicalFill, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected header with %d columns", len(header))
	}
	for i, h := range header {
		if h != csvHeader[i] {
			return nil, fmt.Errorf("unexpected column %q, want %q", h, csvHeader[i])
		}
	}

	var rows []models.CanonicalFill
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		ts, err := time.ParseInLocation(rowTimeFmt, record[0]+" "+record[1], time.Local)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := models.CanonicalFill{
			TimestampMillis: ts.UnixMilli(),
			Date:            record[0],
			Time:            record[1],
			Asset:           record[2],
			Side:            models.Side(record[3]),
		}
		for i, dst := range []*float64{&row.Price, &row.Size, &row.Fee, &row.ClosedPnl} {
			v, err := strconv.ParseFloat(record[4+i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, csvHeader[4+i], err)
			}
			*dst = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// FileName builds the conventional export name for a wallet and
// window, e.g. hyperliquid_pnl_0xabc12345_2025-01-01_2025-01-31.csv.
func FileName(wallet string, w models.TimeWindow, ext string) string {
	prefix := wallet
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	from := time.UnixMilli(w.FromMillis).Format("2006-01-02")
	to := time.UnixMilli(w.ToMillis).Format("2006-01-02")
	return fmt.Sprintf("hyperliquid_pnl_%s_%s_%s.%s", prefix, from, to, ext)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
