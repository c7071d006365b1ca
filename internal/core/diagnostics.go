package core

// diagnostics.go computes read-only reports over a table snapshot.
// Nothing here modifies the table it is given.

import (
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// MissingEntry is one row of the missing-value report.
type MissingEntry struct {
	Column  string  `json:"column"`
	Count   int     `json:"missingCount"`
	Percent float64 `json:"missingPercent"`
}

// MissingReport returns one entry per column that has at least one missing
// cell, in column order. Percent is rounded to two decimals and is 0 for a
// table with no rows.
func MissingReport(t *Table) []MissingEntry {
	var report []MissingEntry
	for _, col := range t.columns {
		n := col.MissingCount()
		if n == 0 {
			continue
		}
		report = append(report, MissingEntry{
			Column:  col.Name,
			Count:   n,
			Percent: missingPercent(n, t.rows),
		})
	}
	return report
}

func missingPercent(missing, rows int) float64 {
	if rows == 0 {
		return 0
	}
	pct, err := stats.Round(float64(missing)/float64(rows)*100, 2)
	if err != nil || math.IsNaN(pct) {
		return 0
	}
	return pct
}

// AllMissingColumns returns the names of columns in which every cell is
// missing. A table with no rows has no such columns: there is nothing in it
// to be missing.
func AllMissingColumns(t *Table) []string {
	if t.rows == 0 {
		return nil
	}
	var names []string
	for _, col := range t.columns {
		if col.MissingCount() == t.rows {
			names = append(names, col.Name)
		}
	}
	return names
}

// DuplicateReport describes rows that repeat an earlier row exactly.
type DuplicateReport struct {
	// Count is the number of rows that repeat an earlier row. First
	// occurrences are not counted.
	Count int `json:"duplicateCount"`

	// RowIndices lists every row, first occurrences included, that belongs
	// to a group of two or more equal rows. Indices are in table order.
	RowIndices []int `json:"rowIndices"`
}

// FindDuplicates groups rows by full-row equality. Missing cells compare
// equal to each other. A table without columns has no duplicates.
func FindDuplicates(t *Table) DuplicateReport {
	if len(t.columns) == 0 {
		return DuplicateReport{}
	}

	groups := make(map[string]int, t.rows)
	keys := make([]string, t.rows)

	for i := 0; i < t.rows; i++ {
		k := rowKey(t, i)
		keys[i] = k
		groups[k]++
	}

	report := DuplicateReport{Count: t.rows - len(groups)}
	if report.Count == 0 {
		return report
	}
	for i, k := range keys {
		if groups[k] > 1 {
			report.RowIndices = append(report.RowIndices, i)
		}
	}
	return report
}

// rowKey encodes row i so that two rows have the same key iff every cell is
// equal. Text cells are length-prefixed so no value can forge a separator.
func rowKey(t *Table, i int) string {
	var b strings.Builder
	for _, col := range t.columns {
		v := col.Values[i]
		switch {
		case !v.Valid:
			b.WriteString("~;")
		case col.Kind == KindNumeric:
			b.WriteByte('n')
			b.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
			b.WriteByte(';')
		default:
			b.WriteByte('s')
			b.WriteString(strconv.Itoa(len(v.Str)))
			b.WriteByte(':')
			b.WriteString(v.Str)
		}
	}
	return b.String()
}

// ColumnSummary describes one column of a table.
type ColumnSummary struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	NonMissing int    `json:"nonMissing"`
	Missing    int    `json:"missing"`
}

// Summary is the structural overview shown before any cleaning.
type Summary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}

// Summarize returns the row count and per-column kind and fill counts.
func Summarize(t *Table) Summary {
	s := Summary{Rows: t.rows, Columns: make([]ColumnSummary, len(t.columns))}
	for i, col := range t.columns {
		missing := col.MissingCount()
		s.Columns[i] = ColumnSummary{
			Name:       col.Name,
			Kind:       col.Kind.String(),
			NonMissing: t.rows - missing,
			Missing:    missing,
		}
	}
	return s
}
