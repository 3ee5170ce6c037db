// Command ods2xlsx converts an OpenDocument spreadsheet to xlsx, keeping
// sheet names, visibility, the active sheet and native cell values.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/xaamin/openspout"
)

func main() {
	setupEnvironment()

	out := flag.String("out", "", "output .xlsx path (default: input path with .xlsx extension)")
	sheetName := flag.String("sheet", "", "convert only the named sheet")
	filterExpr := flag.String("filter", "", `row filter expression, e.g. 'cells[0] == "Total"'`)
	formatDates := flag.Bool("format-dates", false, "copy date and time cells as their display text")
	preserveEmptyRows := flag.Bool("preserve-empty-rows", false, "keep interior empty rows")
	describe := flag.Bool("describe", false, "print a summary of the input file and exit")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ods2xlsx [flags] input.ods")
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)

	var opts []openspout.Option
	if *formatDates {
		opts = append(opts, openspout.WithDateFormatting(true))
	}
	if *preserveEmptyRows {
		opts = append(opts, openspout.WithPreserveEmptyRows(true))
	}

	if *describe {
		summary, err := openspout.Describe(input, opts...)
		if err != nil {
			log.Fatal().Err(err).Str("input", input).Msg("Failed to describe input")
		}
		fmt.Print(summary)
		return
	}

	target := *out
	if target == "" {
		target = strings.TrimSuffix(input, ".ods") + ".xlsx"
	}

	var filter *openspout.RowFilter
	if *filterExpr != "" {
		var err error
		filter, err = openspout.NewRowFilter(*filterExpr)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid filter expression")
		}
	}

	if err := convert(input, target, *sheetName, filter, opts); err != nil {
		log.Fatal().Err(err).Str("input", input).Msg("Conversion failed")
	}
	log.Info().Str("input", input).Str("output", target).Msg("Conversion complete")
}

// setupEnvironment loads .env if present and configures log output and
// level from ENV and LOGLEVEL.
func setupEnvironment() {
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	switch strings.ToLower(os.Getenv("LOGLEVEL")) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file")
	}
}

func convert(input, output, onlySheet string, filter *openspout.RowFilter, opts []openspout.Option) error {
	r, err := openspout.Open(input, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	f := excelize.NewFile()
	defer f.Close()

	sheets, err := r.Sheets()
	if err != nil {
		return err
	}
	defer sheets.Close()

	written := 0
	activeIndex := -1
	for sheets.Next() {
		sheet := sheets.Sheet()
		if onlySheet != "" && sheet.Name != onlySheet {
			continue
		}

		index, err := targetSheet(f, sheet.Name, written)
		if err != nil {
			return err
		}
		if sheet.Active {
			activeIndex = index
		}
		if !sheet.Visible {
			if err := f.SetSheetVisible(sheet.Name, false); err != nil {
				return fmt.Errorf("hide sheet %q: %w", sheet.Name, err)
			}
		}

		rowCount, err := copyRows(f, sheet, filter)
		if err != nil {
			return fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
		log.Info().Str("sheet", sheet.Name).Int("rows", rowCount).Msg("Converted sheet")
		written++
	}
	if err := sheets.Err(); err != nil {
		return err
	}
	if written == 0 {
		return fmt.Errorf("no sheets converted")
	}
	if activeIndex >= 0 {
		f.SetActiveSheet(activeIndex)
	}
	return f.SaveAs(output)
}

// targetSheet renames the workbook's default sheet for the first converted
// table and creates new sheets for the rest.
func targetSheet(f *excelize.File, name string, written int) (int, error) {
	if written == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return 0, fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return 0, fmt.Errorf("create sheet %q: %w", name, err)
	}
	index, err := f.GetSheetIndex(name)
	if err != nil {
		return 0, fmt.Errorf("sheet index %q: %w", name, err)
	}
	return index, nil
}

func copyRows(f *excelize.File, sheet *openspout.Sheet, filter *openspout.RowFilter) (int, error) {
	rows := sheet.Rows()
	outRow := 0
	for rows.Next() {
		row := rows.Row()
		if filter != nil {
			ok, err := filter.Match(sheet.Name, rows.RowNumber(), row)
			if err != nil {
				return outRow, err
			}
			if !ok {
				continue
			}
		}
		outRow++
		for i, cell := range row.Cells() {
			if cell.IsEmpty() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(i+1, outRow)
			if err != nil {
				return outRow, fmt.Errorf("cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet.Name, ref, openspout.Native(cell.Value)); err != nil {
				return outRow, fmt.Errorf("write cell %s: %w", ref, err)
			}
		}
	}
	return outRow, rows.Err()
}
