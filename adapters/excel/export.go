package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"healthdash/domain/indicator"
)

const statsSheet = "Indicator Stats"

var statsHeader = []string{
	"Indicator ID", "Indicator Name", "Minimum", "Maximum",
	"Mean", "Standard Deviation", "Baseline Average", "Level",
}

// Exporter writes aggregation results as a spreadsheet download.
type Exporter struct{}

// NewExporter creates a stats exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportStats renders one row per indicator stat and returns the workbook
// bytes. Null fields render as empty cells.
func (e *Exporter) ExportStats(stats []indicator.Stat) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(statsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range statsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(statsSheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, s := range stats {
		row := i + 2
		values := []any{
			s.IndicatorID,
			deref(s.IndicatorName),
			deref(s.MinValue),
			deref(s.MaxValue),
			derefFloat(s.Mean),
			derefFloat(s.StdDev),
			derefFloat(s.BaselineAvg),
			s.Level,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if v == nil {
				continue
			}
			if err := f.SetCellValue(statsSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
