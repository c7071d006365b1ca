package web

import (
	"math"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/dataclean/internal/core"
)

// ColumnView describes one column of a TableView.
type ColumnView struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// TableView is the JSON shape of a table slice. Numeric cells encode as
// numbers, text as strings and missing cells as null. Infinite numbers,
// which JSON cannot carry, encode as the strings "+Inf" and "-Inf".
type TableView struct {
	Columns   []ColumnView `json:"columns"`
	Rows      [][]any      `json:"rows"`
	TotalRows int          `json:"totalRows"`
}

func newTableView(t *core.Table, totalRows int) TableView {
	cols := t.Columns()
	v := TableView{
		Columns:   make([]ColumnView, len(cols)),
		Rows:      make([][]any, t.NumRows()),
		TotalRows: totalRows,
	}
	for i, c := range cols {
		v.Columns[i] = ColumnView{Name: c.Name, Kind: c.Kind.String()}
	}
	for r := range v.Rows {
		row := make([]any, len(cols))
		for i, c := range cols {
			cell := c.Values[r]
			switch {
			case !cell.Valid:
				row[i] = nil
			case c.Kind == core.KindNumeric && math.IsInf(cell.Num, 0):
				row[i] = cell.Format(c.Kind)
			case c.Kind == core.KindNumeric:
				row[i] = cell.Num
			default:
				row[i] = cell.Str
			}
		}
		v.Rows[r] = row
	}
	return v
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
