package selectable

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Columns is the union of row keys in order of first appearance.
func Columns(rows []*orderedmap.OrderedMap) []string {
	seen := map[string]bool{}
	var cols []string
	for _, row := range rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// cellValue keeps scalars as they are and writes nested values as JSON.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case string, float64, bool:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// WriteXLSX writes rows as one sheet with a header row.
func WriteXLSX(w io.Writer, rows []*orderedmap.OrderedMap) error {
	f := excelize.NewFile()
	defer f.Close()

	cols := Columns(rows)
	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	for r, row := range rows {
		for i, col := range cols {
			v, ok := row.Get(col)
			if !ok || v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheetName, cell, cellValue(v)); err != nil {
				return errors.Wrapf(err, "write cell %s", cell)
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write xlsx")
	}
	return nil
}
