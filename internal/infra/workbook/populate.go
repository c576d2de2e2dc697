// Package workbook writes fetched fundamentals into the Excel valuation
// template: one row per line item, one column per year, anchored at fixed
// cells on the Inputs sheet.
package workbook

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/lisquant/valuation/internal/domain/marketdata"
)

const inputsSheet = "Inputs"

const (
	numberFormat = "#,##0.000"
	dsoFormat    = "0.0"
)

// Writer populates copies of the valuation template.
type Writer struct {
	StartYear int
	EndYear   int
}

// Populate copies the template to outputPath and fills the Inputs sheet with
// the fundamentals. Numeric points get the model's number format, N/A markers
// are written as text, and missing years become 0 (the template's formulas
// expect a value in every cell).
func (w *Writer) Populate(templatePath, outputPath, ticker string, f marketdata.Fundamentals) error {
	if err := copyFile(templatePath, outputPath); err != nil {
		return fmt.Errorf("copying template for %s: %w", ticker, err)
	}

	wb, err := excelize.OpenFile(outputPath)
	if err != nil {
		return err
	}
	defer wb.Close()

	if idx, err := wb.GetSheetIndex(inputsSheet); err != nil || idx < 0 {
		return fmt.Errorf("sheet %q not found in template", inputsSheet)
	}

	numberStyle, err := newNumberStyle(wb, numberFormat)
	if err != nil {
		return err
	}
	dsoStyle, err := newNumberStyle(wb, dsoFormat)
	if err != nil {
		return err
	}

	years := w.EndYear - w.StartYear + 1
	for _, item := range marketdata.LineItems() {
		anchor, ok := anchors[item.Name]
		if !ok {
			continue
		}
		cells, err := targetCells(anchor, years)
		if err != nil {
			return fmt.Errorf("line item %q: %w", item.Name, err)
		}

		field := item.Field
		style := numberStyle
		if item.Derived {
			field = marketdata.FieldCode(item.Name)
			if item.Name == "DSO" {
				style = dsoStyle
			}
		}
		series := f[field]

		for i, cell := range cells {
			year := w.StartYear + i
			v, ok := series[year]
			switch {
			case ok && v.Numeric:
				if err := wb.SetCellValue(inputsSheet, cell, v.Num); err != nil {
					return err
				}
				if err := wb.SetCellStyle(inputsSheet, cell, cell, style); err != nil {
					return err
				}
			case ok && v.Note != "":
				if err := wb.SetCellValue(inputsSheet, cell, v.Note); err != nil {
					return err
				}
			default:
				if err := wb.SetCellValue(inputsSheet, cell, 0); err != nil {
					return err
				}
			}
		}
	}

	return wb.Save()
}

func newNumberStyle(wb *excelize.File, format string) (int, error) {
	return wb.NewStyle(&excelize.Style{CustomNumFmt: &format})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
