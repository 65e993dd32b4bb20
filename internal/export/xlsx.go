package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/restquery/internal/models"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet = "Sheet1"
)

// WriteXLSX writes the statistics rows as a workbook with one sheet named
// after the entity. The first row holds the column names.
func WriteXLSX(w io.Writer, entity string, result *models.AggregateResult) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := sheetName(entity)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, 0, len(result.Columns))
	for _, c := range result.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range result.Rows {
		values := make([]any, 0, len(result.Columns))
		for _, c := range result.Columns {
			values = append(values, cellValue(row[c]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// cellValue maps driver values excelize has no case for to strings.
func cellValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// sheetName trims entity to the 31 characters a sheet name may hold.
func sheetName(entity string) string {
	if entity == "" {
		return defaultSheet
	}
	r := []rune(entity)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
