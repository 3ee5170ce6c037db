package openspout

import (
	"fmt"
	"strings"
)

// describeTypeOrder fixes the tally order so output stays deterministic.
var describeTypeOrder = []CellType{
	CellTypeString,
	CellTypeFloat,
	CellTypeBoolean,
	CellTypeDate,
	CellTypeTime,
	CellTypeCurrency,
	CellTypePercentage,
	CellTypeVoid,
}

// Describe opens the spreadsheet at path and returns a human-readable
// summary of its sheets. Useful for inspecting files during development.
func Describe(path string, opts ...Option) (string, error) {
	r, err := Open(path, opts...)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.Describe()
}

// Describe walks the whole workbook and returns one line per sheet with its
// flags and dimensions, followed by a tally of cell value types.
func (r *Reader) Describe() (string, error) {
	sheets, err := r.Sheets()
	if err != nil {
		return "", err
	}
	defer sheets.Close()

	var b strings.Builder
	for sheets.Next() {
		sheet := sheets.Sheet()

		rowCount := 0
		maxCols := 0
		typeCounts := make(map[CellType]int)
		rows := sheet.Rows()
		for rows.Next() {
			row := rows.Row()
			rowCount++
			if n := len(row.Cells()); n > maxCols {
				maxCols = n
			}
			for _, cell := range row.Cells() {
				typeCounts[cell.Type]++
			}
		}
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}

		fmt.Fprintf(&b, "Sheet %d: %q%s (%d rows x %d cols)\n",
			sheet.Index, sheet.Name, sheetFlags(sheet), rowCount, maxCols)
		for _, typ := range describeTypeOrder {
			if n := typeCounts[typ]; n > 0 {
				fmt.Fprintf(&b, "  %s: %d\n", typ, n)
			}
		}
	}
	if err := sheets.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func sheetFlags(sheet *Sheet) string {
	flags := make([]string, 0, 2)
	if sheet.Active {
		flags = append(flags, "active")
	}
	if !sheet.Visible {
		flags = append(flags, "hidden")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}
