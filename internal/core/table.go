package core

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind is the logical type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindText
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single cell. Valid=false marks a missing cell; Num and Str are
// meaningless in that case. Which of Num or Str is used depends on the
// owning column's Kind.
type Value struct {
	Num   float64
	Str   string
	Valid bool
}

// Number returns a numeric cell. NaN is stored as missing so it can never
// leak into diagnostics or exports.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	if f == 0 {
		f = 0 // fold -0 into 0 so equal rows hash equal
	}
	return Value{Num: f, Valid: true}
}

// Text returns a text cell.
func Text(s string) Value {
	return Value{Str: s, Valid: true}
}

// Missing returns a missing cell.
func Missing() Value {
	return Value{}
}

// Format renders the value for display or export. Missing cells render as "".
func (v Value) Format(kind Kind) string {
	if !v.Valid {
		return ""
	}
	if kind == KindNumeric {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// NumericColumn builds a numeric column. A nil entry marks a missing cell.
func NumericColumn(name string, values ...*float64) Column {
	col := Column{Name: name, Kind: KindNumeric, Values: make([]Value, len(values))}
	for i, v := range values {
		if v != nil {
			col.Values[i] = Number(*v)
		}
	}
	return col
}

// TextColumn builds a text column. A nil entry marks a missing cell.
func TextColumn(name string, values ...*string) Column {
	col := Column{Name: name, Kind: KindText, Values: make([]Value, len(values))}
	for i, v := range values {
		if v != nil {
			col.Values[i] = Text(*v)
		}
	}
	return col
}

// MissingCount returns the number of missing cells in the column.
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if !v.Valid {
			n++
		}
	}
	return n
}

func (c Column) clone() Column {
	return Column{Name: c.Name, Kind: c.Kind, Values: slices.Clone(c.Values)}
}

// Table is an immutable, column-major dataset. Operations that change data
// return a new Table; a *Table handed out is never modified afterwards.
type Table struct {
	columns []Column
	rows    int
	index   map[string]int
}

// NewTable validates the columns and builds a Table. Column names must be
// unique and every column must have the same number of cells.
//
// A table with no columns has zero rows.
func NewTable(columns ...Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0].Values)
	}
	return newTable(columns, rows)
}

// NewTableWithRows is NewTable for callers that need to keep a row count on a
// table without columns, e.g. after every column was dropped.
func NewTableWithRows(rows int, columns ...Column) (*Table, error) {
	if rows < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrInvalidTable, rows)
	}
	return newTable(columns, rows)
}

func newTable(columns []Column, rows int) (*Table, error) {
	index := make(map[string]int, len(columns))
	cols := make([]Column, len(columns))

	for i, col := range columns {
		if _, dup := index[col.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrInvalidTable, col.Name)
		}
		if len(col.Values) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				ErrInvalidTable, col.Name, len(col.Values), rows)
		}
		if col.Kind != KindNumeric && col.Kind != KindText {
			return nil, fmt.Errorf("%w: column %q has unknown kind %d", ErrInvalidTable, col.Name, col.Kind)
		}
		index[col.Name] = i
		cols[i] = col.clone()
		if col.Kind == KindNumeric {
			for r, v := range cols[i].Values {
				if v.Valid {
					cols[i].Values[r] = Number(v.Num)
				}
			}
		}
	}

	return &Table{columns: cols, rows: rows, index: index}, nil
}

// fromOwned wraps columns the caller has just built and will not touch again.
// It skips validation and copying; only engine code that preserves the
// invariants may use it.
func fromOwned(columns []Column, rows int) *Table {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col.Name] = i
	}
	return &Table{columns: columns, rows: rows, index: index}
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i].clone(), true
}

// Columns returns copies of all columns in order.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	for i, col := range t.columns {
		cols[i] = col.clone()
	}
	return cols
}

// Row returns the cells of row i across all columns.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}
	return row
}

// FormatRow renders row i as strings, one per column.
func (t *Table) FormatRow(i int) []string {
	out := make([]string, len(t.columns))
	for c, col := range t.columns {
		out[c] = col.Values[i].Format(col.Kind)
	}
	return out
}

// SelectRows returns a new table holding the given rows in the given order.
// Indices out of range are ignored.
func (t *Table) SelectRows(indices []int) *Table {
	keep := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < t.rows {
			keep = append(keep, i)
		}
	}

	cols := make([]Column, len(t.columns))
	for c, col := range t.columns {
		values := make([]Value, len(keep))
		for j, i := range keep {
			values[j] = col.Values[i]
		}
		cols[c] = Column{Name: col.Name, Kind: col.Kind, Values: values}
	}
	return fromOwned(cols, len(keep))
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > t.rows {
		n = t.rows
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return t.SelectRows(indices)
}

// Equal reports whether two tables have the same columns (name, kind, order)
// and the same cells.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.rows != other.rows || len(t.columns) != len(other.columns) {
		return false
	}
	for c, col := range t.columns {
		oc := other.columns[c]
		if col.Name != oc.Name || col.Kind != oc.Kind {
			return false
		}
		for r, v := range col.Values {
			if !sameCell(col.Kind, v, oc.Values[r]) {
				return false
			}
		}
	}
	return true
}

// String renders a short description for logs.
func (t *Table) String() string {
	return fmt.Sprintf("Table{rows: %d, columns: [%s]}", t.rows, strings.Join(t.ColumnNames(), ", "))
}

func sameCell(kind Kind, a, b Value) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	if kind == KindNumeric {
		return a.Num == b.Num
	}
	return a.Str == b.Str
}
