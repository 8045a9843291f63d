package usecase

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportUC writes the scan history to an .xlsx workbook.
type ExportUC struct {
	History *HistoryUC
}

var exportHeader = []string{
	"Barcode", "Name", "Packaging", "Eco Grade", "Carbon Footprint",
	"Impact Score", "Impact Level", "Allergens", "Scanned At",
}

func (uc *ExportUC) ToXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for row, rec := range uc.History.Records() {
		impact := rec.Impact()
		values := []interface{}{
			rec.Barcode,
			rec.Name,
			rec.Packaging,
			string(rec.EcoGrade),
			rec.CarbonDisplay(),
			impact.Score,
			string(impact.Level()),
			strings.Join(rec.Allergens, ", "),
			rec.ScannedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
