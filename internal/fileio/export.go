package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dataclean/internal/core"
)

const (
	// ExportSheetName is the single sheet written by WriteXLSX.
	ExportSheetName = "Cleaned Data"

	ExportCSVFilename  = "cleaned_data.csv"
	ExportXLSXFilename = "cleaned_data.xlsx"
)

// ContentType returns the MIME type for an export format.
func ContentType(format Format) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportFilename returns the download name for an export format.
func ExportFilename(format Format) string {
	if format == FormatXLSX {
		return ExportXLSXFilename
	}
	return ExportCSVFilename
}

// Write exports t in the given format.
func Write(w io.Writer, t *core.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// WriteCSV writes a header row and one record per row, without an index
// column. Missing cells are written as empty fields. A record holding a
// single empty field is written as "" so readers do not take it for a blank
// line.
func WriteCSV(w io.Writer, t *core.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		record := t.FormatRow(i)
		if len(record) == 1 && record[0] == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
			continue
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t to a workbook with one sheet named ExportSheetName.
// Numeric cells are stored as numbers, except infinities, which are stored as
// text. Missing cells are left blank; every data row is written, and the
// sheet's used range spans them all.
func WriteXLSX(w io.Writer, t *core.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	// The used range covers every data row, so readers keep trailing rows
	// whose cells are all missing.
	last, err := excelize.CoordinatesToCellName(max(1, t.NumColumns()), t.NumRows()+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetDimension(ExportSheetName, "A1:"+last); err != nil {
		return fmt.Errorf("set used range: %w", err)
	}
	sw, err := f.NewStreamWriter(ExportSheetName)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}

	cols := t.Columns()
	header := make([]any, len(cols))
	for c, col := range cols {
		header[c] = col.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r := 0; r < t.NumRows(); r++ {
		row := make([]any, len(cols))
		for c, col := range cols {
			v := col.Values[r]
			switch {
			case !v.Valid:
			case col.Kind == core.KindNumeric && !math.IsInf(v.Num, 0):
				row[c] = v.Num
			default:
				row[c] = v.Format(col.Kind)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
