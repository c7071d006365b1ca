package fileio

// infer.go turns a grid of raw strings into typed core columns.
//
// Header rules:
//   - blank header i becomes "Unnamed: i"
//   - repeated names get ".1", ".2", ... suffixes
//
// Cell rules:
//   - a cell is missing if it is blank or one of missingTokens
//   - a column is numeric iff every non-missing cell parses as a finite float
//   - a column whose non-missing cells are all boolean literals is text
//     holding "True" or "False"
//   - anything else is text, kept verbatim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dataclean/internal/core"
)

var missingTokens = map[string]bool{
	"":         true,
	"NA":       true,
	"N/A":      true,
	"n/a":      true,
	"NaN":      true,
	"nan":      true,
	"-NaN":     true,
	"-nan":     true,
	"null":     true,
	"NULL":     true,
	"None":     true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"<NA>":     true,
}

var boolLiterals = map[string]string{
	"True":  "True",
	"TRUE":  "True",
	"true":  "True",
	"False": "False",
	"FALSE": "False",
	"false": "False",
}

// IsMissingToken reports whether s is read as a missing cell.
func IsMissingToken(s string) bool {
	return missingTokens[strings.TrimSpace(s)]
}

// parseNumber parses a numeric cell. Hex literals are text, and so are
// literals with no finite float64 value ("1e400", "inf", "Infinity").
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.Contains(lower, "0x") || strings.Contains(s, "_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// headerNames applies the blank and duplicate header rules.
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	counts := make(map[string]int, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for used[name] {
			counts[base]++
			name = fmt.Sprintf("%s.%d", base, counts[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// inferColumn builds a column from its raw cells.
func inferColumn(name string, cells []string) core.Column {
	numeric, boolean := true, true
	for _, c := range cells {
		if IsMissingToken(c) {
			continue
		}
		if numeric {
			if _, ok := parseNumber(c); !ok {
				numeric = false
			}
		}
		if boolean {
			if _, ok := boolLiterals[strings.TrimSpace(c)]; !ok {
				boolean = false
			}
		}
		if !numeric && !boolean {
			break
		}
	}

	col := core.Column{Name: name, Values: make([]core.Value, len(cells))}
	switch {
	case numeric:
		// Includes columns with no values at all.
		col.Kind = core.KindNumeric
		for i, c := range cells {
			if IsMissingToken(c) {
				continue
			}
			v, _ := parseNumber(c)
			col.Values[i] = core.Number(v)
		}
	case boolean:
		col.Kind = core.KindText
		for i, c := range cells {
			if IsMissingToken(c) {
				continue
			}
			col.Values[i] = core.Text(boolLiterals[strings.TrimSpace(c)])
		}
	default:
		col.Kind = core.KindText
		for i, c := range cells {
			if IsMissingToken(c) {
				continue
			}
			col.Values[i] = core.Text(c)
		}
	}
	return col
}

// buildTable converts a header and data rows into a table. Rows shorter than
// the header are padded with missing cells. Wider rows are an error unless
// widen is set, in which case extra unnamed columns are added.
func buildTable(header []string, rows [][]string, widen bool) (*core.Table, error) {
	width := len(header)
	for i, row := range rows {
		if len(row) <= width {
			continue
		}
		if !widen {
			return nil, fmt.Errorf("data row %d: expected %d fields, saw %d", i+1, len(header), len(row))
		}
		width = len(row)
	}
	for len(header) < width {
		header = append(header, "")
	}

	names := headerNames(header)
	cols := make([]core.Column, width)
	cells := make([]string, len(rows))
	for c := 0; c < width; c++ {
		for r, row := range rows {
			if c < len(row) {
				cells[r] = row[c]
			} else {
				cells[r] = ""
			}
		}
		cols[c] = inferColumn(names[c], cells)
	}
	return core.NewTableWithRows(len(rows), cols...)
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
