package openspout

import (
	"encoding/xml"
	"fmt"
	"io"
)

const (
	nodeTable           = "table:table"
	nodeAutomaticStyles = "office:automatic-styles"
	nodeStyle           = "style:style"
	nodeTableProperties = "style:table-properties"

	attrTableName   = "table:name"
	attrStyleRef    = "table:style-name"
	attrStyleName   = "style:name"
	attrStyleFamily = "style:family"
	attrDisplay     = "table:display"
)

// SheetIterator streams table elements from the content document.
type SheetIterator struct {
	reader *Reader
	rc     io.ReadCloser
	dec    *xml.Decoder

	hiddenStyles map[string]bool
	current      *Sheet
	index        int
	err          error
	done         bool
}

// Next advances to the next sheet. It returns false when no sheets remain
// or an error occurred; check Err afterwards. Rows of the current sheet
// share the underlying decoder, so read them before advancing.
func (it *SheetIterator) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	if it.current != nil {
		if err := it.current.drain(); err != nil {
			it.err = err
			return false
		}
		it.current = nil
	}
	for {
		tok, err := it.dec.Token()
		if err == io.EOF {
			it.done = true
			return false
		}
		if err != nil {
			it.err = fmt.Errorf("read content: %w", err)
			return false
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch qualifiedName(start.Name) {
		case nodeAutomaticStyles:
			styles, err := parseElement(it.dec, start)
			if err != nil {
				it.err = fmt.Errorf("read styles: %w", err)
				return false
			}
			it.hiddenStyles = hiddenTableStyles(styles)
		case nodeTable:
			name := attrValueOf(start, attrTableName)
			it.current = &Sheet{
				Name:    name,
				Index:   it.index,
				Visible: !it.hiddenStyles[attrValueOf(start, attrStyleRef)],
				Active:  it.isActive(name),
				it:      it,
			}
			it.index++
			return true
		}
	}
}

// isActive matches the sheet against the ActiveTable setting. Without one,
// the first sheet counts as active.
func (it *SheetIterator) isActive(name string) bool {
	if it.reader.activeTable == "" {
		return it.index == 0
	}
	return name == it.reader.activeTable
}

// Sheet returns the current sheet. Valid after Next reports true.
func (it *SheetIterator) Sheet() *Sheet { return it.current }

// Err returns the first error encountered while iterating.
func (it *SheetIterator) Err() error { return it.err }

// Close stops iteration and releases the content stream.
func (it *SheetIterator) Close() error {
	it.done = true
	return it.rc.Close()
}

// hiddenTableStyles collects the names of table styles that turn display
// off. Sheet visibility lives in the style, not on the table element.
func hiddenTableStyles(styles *Element) map[string]bool {
	hidden := make(map[string]bool)
	for _, style := range styles.Descendants(nodeStyle) {
		if style.Attr(attrStyleFamily) != "table" {
			continue
		}
		for _, props := range style.Descendants(nodeTableProperties) {
			if props.Attr(attrDisplay) == "false" {
				hidden[style.Attr(attrStyleName)] = true
			}
		}
	}
	return hidden
}

// Sheet is a single table in the workbook.
type Sheet struct {
	Name    string
	Index   int
	Visible bool
	Active  bool

	it   *SheetIterator
	rows *RowIterator
}

// Rows returns the sheet's row iterator. Calling it again returns the same
// iterator; rows cannot be rewound.
func (s *Sheet) Rows() *RowIterator {
	if s.rows == nil {
		s.rows = &RowIterator{sheet: s}
	}
	return s.rows
}

// drain consumes any unread rows so the decoder sits past the sheet's end.
func (s *Sheet) drain() error {
	rows := s.Rows()
	for rows.Next() {
	}
	return rows.Err()
}

func (s *Sheet) decoder() *xml.Decoder          { return s.it.dec }
func (s *Sheet) options() *Options              { return s.it.reader.opts }
func (s *Sheet) formatter() *CellValueFormatter { return s.it.reader.formatter }
