package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Karan545/hyperliquid-pnl-tracker/internal/models"
)

const fillsSheet = "Fills"

// WriteXLSX renders the report as a single-sheet workbook with the
// same columns as the CSV export.
func WriteXLSX(path string, rep *models.Report) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), fillsSheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	for i, h := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(fillsSheet, cell, h); err != nil {
			return err
		}
	}
	if err := fx.SetCellStyle(fillsSheet, "A1", "H1", headerStyle); err != nil {
		return err
	}

	for r, row := range rep.Rows {
		values := []any{
			row.Date, row.Time, row.Asset, string(row.Side),
			row.Price, row.Size, row.Fee, row.ClosedPnl,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := fx.SetCellValue(fillsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := fx.SetColWidth(fillsSheet, "A", "H", 14); err != nil {
		return err
	}

	return fx.SaveAs(path)
}
