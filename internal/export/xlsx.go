// Package export renders query results as spreadsheet downloads.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hostelreport/internal/store"
)

// ContentTypeXLSX is the media type of an Office Open XML workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the single sheet every export is written to.
const SheetName = "Sheet1"

// XLSX writes the table to a one-sheet workbook: a header row with the
// column names in order, then one row per record.
func XLSX(t store.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, stringsToAny(t.Columns)); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if err := setRow(f, i+2, normalize(row)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// normalize turns driver values excelize cannot place directly into text.
func normalize(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case []byte:
			out[i] = string(x)
		case nil:
			out[i] = ""
		default:
			out[i] = x
		}
	}
	return out
}
