package openspout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
)

const (
	nodeTableRow    = "table:table-row"
	nodeTableCell   = "table:table-cell"
	nodeCoveredCell = "table:covered-table-cell"

	attrRowsRepeated = "table:number-rows-repeated"
	attrColsRepeated = "table:number-columns-repeated"
)

var errEndOfTable = errors.New("end of table")

// Cell is a single formatted cell: its declared type and converted value.
type Cell struct {
	Type  CellType
	Value Value
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	if c.Value == nil {
		return true
	}
	_, ok := c.Value.(Empty)
	return ok
}

// Row is one table row. Cells appear in document order with repeated cells
// expanded and the trailing run of empty cells removed.
type Row struct {
	cells []Cell
}

// Cells returns the row's cells.
func (r *Row) Cells() []Cell { return r.cells }

// IsEmpty reports whether no cell in the row carries a value.
func (r *Row) IsEmpty() bool {
	for _, c := range r.cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Strings renders every cell with its String method.
func (r *Row) Strings() []string {
	out := make([]string, len(r.cells))
	for i, c := range r.cells {
		if c.Value != nil {
			out[i] = c.Value.String()
		}
	}
	return out
}

// rowGroup is a parsed table-row with its repeat count still folded.
type rowGroup struct {
	row    *Row
	repeat int
}

// RowIterator streams the rows of a single sheet. Empty rows are skipped
// unless the reader preserves them; a trailing run of empty rows is dropped
// either way, which keeps files padded with a huge repeated empty row from
// flooding the caller.
type RowIterator struct {
	sheet *Sheet

	queue           []rowGroup
	bufferedEmpties int
	current         *Row
	rowNumber       int
	err             error
	done            bool
}

// Next advances to the next row, returning false when the sheet is
// exhausted or an error occurred; check Err afterwards.
func (it *RowIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		for len(it.queue) > 0 {
			g := &it.queue[0]
			if g.repeat == 0 {
				it.queue = it.queue[1:]
				continue
			}
			g.repeat--
			it.current = g.row
			it.rowNumber++
			return true
		}
		if it.done {
			return false
		}

		row, repeat, err := it.readRowGroup()
		if err == errEndOfTable {
			// Whatever empties were pending are trailing: drop them.
			it.done = true
			it.bufferedEmpties = 0
			continue
		}
		if err != nil {
			it.err = err
			return false
		}

		if row.IsEmpty() {
			if it.sheet.options().preserveEmptyRows {
				it.bufferedEmpties += repeat
			}
			continue
		}
		if it.bufferedEmpties > 0 {
			it.queue = append(it.queue, rowGroup{row: &Row{}, repeat: it.bufferedEmpties})
			it.bufferedEmpties = 0
		}
		it.queue = append(it.queue, rowGroup{row: row, repeat: repeat})
	}
}

// Row returns the current row. Valid after Next reports true. Repeated rows
// share the same *Row value.
func (it *RowIterator) Row() *Row { return it.current }

// RowNumber returns the 1-based position of the current row in the stream.
func (it *RowIterator) RowNumber() int { return it.rowNumber }

// Err returns the first error encountered while iterating.
func (it *RowIterator) Err() error { return it.err }

// readRowGroup parses the next table-row element, skipping columns and
// other non-row children. It returns errEndOfTable at the table's end.
func (it *RowIterator) readRowGroup() (*Row, int, error) {
	dec := it.sheet.decoder()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, 0, fmt.Errorf("read table: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if qualifiedName(t.Name) != nodeTableRow {
				if err := dec.Skip(); err != nil {
					return nil, 0, fmt.Errorf("read table: %w", err)
				}
				continue
			}
			rowEl, err := parseElement(dec, t)
			if err != nil {
				return nil, 0, fmt.Errorf("read row: %w", err)
			}
			row, err := buildRow(rowEl, it.sheet.formatter())
			if err != nil {
				return nil, 0, err
			}
			return row, repeatCount(rowEl.Attr(attrRowsRepeated)), nil
		case xml.EndElement:
			if qualifiedName(t.Name) == nodeTable {
				return nil, 0, errEndOfTable
			}
		}
	}
}

// cellGroup is a formatted cell with its repeat count still folded.
type cellGroup struct {
	cell   Cell
	repeat int
}

// buildRow converts a table-row element into a Row. Repeated cells expand
// in place; the trailing run of empty cells is never materialized.
func buildRow(rowEl *Element, formatter *CellValueFormatter) (*Row, error) {
	var groups []cellGroup
	lastValue := -1
	for _, child := range rowEl.Children() {
		el, ok := child.(*Element)
		if !ok {
			continue
		}
		var cell Cell
		switch el.Name() {
		case nodeTableCell:
			value, err := formatter.ExtractAndFormatNodeValue(el)
			if err != nil {
				return nil, fmt.Errorf("format cell %d: %w", len(groups), err)
			}
			cell = Cell{Type: ParseCellType(el.Attr(attrValueType)), Value: value}
		case nodeCoveredCell:
			cell = Cell{Type: CellTypeVoid, Value: Empty{}}
		default:
			continue
		}
		groups = append(groups, cellGroup{cell: cell, repeat: repeatCount(el.Attr(attrColsRepeated))})
		if !cell.IsEmpty() {
			lastValue = len(groups) - 1
		}
	}

	var cells []Cell
	for i := 0; i <= lastValue; i++ {
		for n := 0; n < groups[i].repeat; n++ {
			cells = append(cells, groups[i].cell)
		}
	}
	return &Row{cells: cells}, nil
}

// repeatCount parses a *-repeated attribute. Anything not a positive
// integer means one.
func repeatCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
