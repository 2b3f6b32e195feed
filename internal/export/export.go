// Package export writes report rows to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/beesaferoot/ams-store/internal/store"
)

const defaultSheet = "Sheet1"

// Sheet is one worksheet. Columns are the union of the row keys in
// alphabetical order; rows missing a column leave the cell empty.
type Sheet struct {
	Name string
	Rows []store.Row
}

// Write renders sheets as a workbook onto w.
func Write(w io.Writer, sheets ...Sheet) error {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Save renders sheets into the file at path.
func Save(path string, sheets ...Sheet) error {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
		if err := fill(f, sheet); err != nil {
			f.Close()
			return nil, err
		}
		if i == 0 {
			idx, _ := f.GetSheetIndex(sheet.Name)
			f.SetActiveSheet(idx)
		}
	}
	if !hasSheet(sheets, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func fill(f *excelize.File, sheet Sheet) error {
	headers := columns(sheet.Rows)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return err
		}
	}
	for r, row := range sheet.Rows {
		for c, header := range headers {
			v, ok := row[header]
			if !ok || v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return fmt.Errorf("sheet %q cell %s: %w", sheet.Name, cell, err)
			}
		}
	}
	return nil
}

func columns(rows []store.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func hasSheet(sheets []Sheet, name string) bool {
	for _, s := range sheets {
		if s.Name == name {
			return true
		}
	}
	return false
}
