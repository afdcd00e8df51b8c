package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/stratsearch/internal/model"
)

// SheetName is the worksheet holding the results
const SheetName = "Results"

var columnWidths = []float64{18, 36, 80, 60, 20}

// XLSXSink writes rows to a single-sheet workbook
type XLSXSink struct {
	Path string
}

// Write creates or replaces the workbook at s.Path
func (s *XLSXSink) Write(rows []model.Row) error {
	if err := ensureDir(s.Path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(model.RowHeader))
	for i, h := range model.RowHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(model.RowHeader), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		line := make([]interface{}, len(values))
		for j, v := range values {
			line[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
