// Package openspout reads OpenDocument spreadsheets (.ods). It streams
// sheets and rows from the archive and converts each cell to a typed value
// according to the cell's declared value type.
//
// Basic usage:
//
//	r, err := openspout.Open("report.ods")
//	if err != nil { ... }
//	defer r.Close()
//	sheets, err := r.Sheets()
//	if err != nil { ... }
//	defer sheets.Close()
//	for sheets.Next() {
//		rows := sheets.Sheet().Rows()
//		for rows.Next() {
//			fmt.Println(rows.Row().Strings())
//		}
//		if err := rows.Err(); err != nil { ... }
//	}
package openspout

import (
	"fmt"
	"io"
	"os"
)

// Open opens the OpenDocument spreadsheet at path.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	r, err := newReader(f, info.Size(), opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// OpenReader reads an OpenDocument spreadsheet from ra. The caller keeps
// ownership of ra; Close on the returned Reader is a no-op.
func OpenReader(ra io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	return newReader(ra, size, opts)
}
