package fileio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dataclean/internal/core"
)

// Format is an upload file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	// ErrUnsupportedFormat is returned by DetectFormat for other extensions.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmptyFile means the input had no header row.
	ErrEmptyFile = errors.New("empty file: no header row")
)

// ctxCheckInterval is how many rows are decoded between context checks.
const ctxCheckInterval = 1024

// DetectFormat picks the format from the file name extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w %q: only .csv and .xlsx are accepted", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Load decodes r as format into a table. source names the upload in errors.
// Any decode failure is returned as *core.UnreadableInputError; a cancelled
// context is returned as is.
func Load(ctx context.Context, r io.Reader, format Format, source string) (*core.Table, error) {
	var (
		t   *core.Table
		err error
	)
	switch format {
	case FormatCSV:
		t, err = loadCSV(ctx, r)
	case FormatXLSX:
		t, err = loadXLSX(ctx, r)
	default:
		err = fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		if source == "" {
			source = string(format)
		}
		return nil, &core.UnreadableInputError{Source: source, Err: err}
	}
	return t, nil
}

// LoadCSV is Load for CSV input.
func LoadCSV(ctx context.Context, r io.Reader) (*core.Table, error) {
	return Load(ctx, r, FormatCSV, "")
}

// LoadXLSX is Load for XLSX input. The first sheet is read.
func LoadXLSX(ctx context.Context, r io.Reader) (*core.Table, error) {
	return Load(ctx, r, FormatXLSX, "")
}

func loadCSV(ctx context.Context, r io.Reader) (*core.Table, error) {
	cr := csv.NewReader(NewTextReader(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		// encoding/csv already skips empty lines; a record of empty fields
		// is a row of missing cells.
		rows = append(rows, record)
	}

	return buildTable(header, rows, false)
}

func loadXLSX(ctx context.Context, r io.Reader) (*core.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	sheet := sheets[0]

	formatted, err := sheetRows(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	raw, err := sheetRows(f, sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid := mergeCellValues(formatted, raw)

	// Blank rows past the declared used range only carry formatting.
	end := len(grid)
	for end > usedRows(f, sheet) && isBlankRow(grid[end-1]) {
		end--
	}
	grid = grid[:end]

	start := 0
	for start < len(grid) && isBlankRow(grid[start]) {
		start++
	}
	if start == len(grid) {
		return nil, ErrEmptyFile
	}
	return buildTable(grid[start], grid[start+1:], true)
}

// sheetRows reads every row up to the last one the sheet defines, blank rows
// in between included.
func sheetRows(f *excelize.File, sheet string, opts ...excelize.Options) ([][]string, error) {
	it, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var rows [][]string
	for it.Next() {
		cols, err := it.Columns(opts...)
		if err != nil {
			return nil, err
		}
		rows = append(rows, cols)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return rows, nil
}

// usedRows returns the last row of the sheet's declared used range, or 0
// when the sheet declares none.
func usedRows(f *excelize.File, sheet string) int {
	ref, err := f.GetSheetDimension(sheet)
	if err != nil || ref == "" {
		return 0
	}
	_, last, _ := strings.Cut(ref, ":")
	if last == "" {
		last = ref
	}
	_, row, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return 0
	}
	return row
}

// mergeCellValues prefers the raw cell value when it is a number so numeric
// cells keep full precision regardless of display format. Boolean cells keep
// their formatted TRUE/FALSE text, since their raw value is 1 or 0.
func mergeCellValues(formatted, raw [][]string) [][]string {
	out := make([][]string, len(formatted))
	for r, row := range formatted {
		merged := make([]string, len(row))
		copy(merged, row)
		if r < len(raw) {
			for c := range merged {
				if c >= len(raw[r]) {
					break
				}
				if _, isBool := boolLiterals[strings.TrimSpace(merged[c])]; isBool {
					continue
				}
				if _, ok := parseNumber(raw[r][c]); ok {
					merged[c] = raw[r][c]
				}
			}
		}
		out[r] = merged
	}
	return out
}
