package openspout

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	contentEntryName  = "content.xml"
	settingsEntryName = "settings.xml"

	nodeConfigItem     = "config:config-item"
	attrConfigName     = "config:name"
	settingActiveTable = "ActiveTable"
)

// Reader reads an OpenDocument spreadsheet from a zip archive. Sheets and
// rows stream from content.xml; Sheets may be called repeatedly to restart
// from the first sheet.
type Reader struct {
	zr          *zip.Reader
	closer      io.Closer
	opts        *Options
	formatter   *CellValueFormatter
	activeTable string
}

func newReader(ra io.ReaderAt, size int64, opts []Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	r := &Reader{
		zr:        zr,
		opts:      o,
		formatter: NewCellValueFormatter(o.formatDates, o.unescaper),
	}
	if r.findEntry(contentEntryName) == nil {
		return nil, fmt.Errorf("%s not found in archive", contentEntryName)
	}
	r.activeTable = r.readActiveTable()
	return r, nil
}

func (r *Reader) findEntry(name string) *zip.File {
	for _, f := range r.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// readActiveTable extracts the ActiveTable view setting from settings.xml.
// A missing or malformed settings entry is not an error.
func (r *Reader) readActiveTable() string {
	entry := r.findEntry(settingsEntryName)
	if entry == nil {
		return ""
	}
	rc, err := entry.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	return activeTableSetting(rc)
}

// activeTableSetting scans a settings document for the config item naming
// the active table. Surrounding whitespace from pretty-printed settings is
// trimmed so the name matches the table attribute.
func activeTableSetting(rd io.Reader) string {
	dec := xml.NewDecoder(rd)
	inActiveTable := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if qualifiedName(t.Name) == nodeConfigItem && attrValueOf(t, attrConfigName) == settingActiveTable {
				inActiveTable = true
			}
		case xml.CharData:
			if inActiveTable {
				return strings.TrimSpace(string(t))
			}
		case xml.EndElement:
			inActiveTable = false
		}
	}
}

// attrValueOf looks up a qualified attribute on a raw start element.
func attrValueOf(start xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if qualifiedName(attr.Name) == name {
			return attr.Value
		}
	}
	return ""
}

// Sheets returns an iterator over the workbook's sheets, in document order.
// Each call opens a fresh content stream.
func (r *Reader) Sheets() (*SheetIterator, error) {
	rc, err := r.findEntry(contentEntryName).Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", contentEntryName, err)
	}
	return &SheetIterator{
		reader: r,
		rc:     rc,
		dec:    xml.NewDecoder(rc),
	}, nil
}

// Close releases the underlying file, if the reader owns one.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
