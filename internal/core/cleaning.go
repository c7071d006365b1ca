package core

// cleaning.go implements the table transformations. Every function takes a
// table and returns a new one; the input is never modified, so a rejected
// operation leaves the caller's table exactly as it was.

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// FillText is the constant written into missing text cells by FillMissing.
const FillText = "Unknown"

// DropColumns returns t without the named columns. Every name must exist;
// otherwise nothing is dropped and an *InvalidColumnError is returned.
// Repeated names are dropped once.
func DropColumns(t *Table, names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	var unknown []string
	for _, name := range names {
		if !t.HasColumn(name) {
			unknown = append(unknown, name)
			continue
		}
		drop[name] = true
	}
	if len(unknown) > 0 {
		return nil, &InvalidColumnError{Columns: unknown}
	}

	cols := make([]Column, 0, len(t.columns)-len(drop))
	for _, col := range t.columns {
		if !drop[col.Name] {
			cols = append(cols, col.clone())
		}
	}
	return fromOwned(cols, t.rows), nil
}

// DropRowsWithAnyMissing returns the rows of t that have no missing cell.
//
// If t has rows and none of them is complete, the result would be empty; the
// operation is rejected with a *WouldEmptyDatasetError instead. A table that
// already has no rows is returned as is.
func DropRowsWithAnyMissing(t *Table) (*Table, error) {
	if t.rows == 0 {
		return t, nil
	}

	keep := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if rowComplete(t, i) {
			keep = append(keep, i)
		}
	}

	if len(keep) == 0 {
		return nil, &WouldEmptyDatasetError{Operation: "drop rows with missing values", Rows: t.rows}
	}
	return t.SelectRows(keep), nil
}

func rowComplete(t *Table, i int) bool {
	for _, col := range t.columns {
		if !col.Values[i].Valid {
			return false
		}
	}
	return true
}

// EmptyNumericPolicy decides what FillMissing does with a numeric column that
// has no values to average.
type EmptyNumericPolicy int

const (
	// EmptyNumericZero fills the column with 0 and reports it in
	// FillResult.Defaulted.
	EmptyNumericZero EmptyNumericPolicy = iota

	// EmptyNumericReject rejects the whole fill with an
	// *UndefinedAggregateError.
	EmptyNumericReject
)

// ParseEmptyNumericPolicy converts a config value ("zero" or "reject").
func ParseEmptyNumericPolicy(s string) (EmptyNumericPolicy, error) {
	switch s {
	case "", "zero":
		return EmptyNumericZero, nil
	case "reject":
		return EmptyNumericReject, nil
	default:
		return 0, fmt.Errorf("unknown empty numeric policy %q", s)
	}
}

// FilledColumn records how one column was filled.
type FilledColumn struct {
	Column string `json:"column"`
	Cells  int    `json:"cells"`
	Value  string `json:"value"`
}

// FillResult describes what FillMissing changed.
type FillResult struct {
	Columns []FilledColumn `json:"columns"`

	// Defaulted names numeric columns with no values that were filled with
	// 0 under EmptyNumericZero.
	Defaulted []string `json:"defaulted,omitempty"`
}

// Cells returns the total number of cells filled.
func (r FillResult) Cells() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Cells
	}
	return n
}

// Warning returns an *UndefinedAggregateError when some column was filled with
// the zero default, and nil otherwise. Callers should surface it to the user.
func (r FillResult) Warning() error {
	if len(r.Defaulted) == 0 {
		return nil
	}
	return &UndefinedAggregateError{Columns: r.Defaulted}
}

// FillMissing replaces missing cells: numeric columns get the mean of their
// non-missing values, text columns get FillText. Numeric columns with no
// values at all are handled according to policy. A numeric column whose mean
// is not finite rejects the fill with *NonFiniteAggregateError whatever the
// policy.
func FillMissing(t *Table, policy EmptyNumericPolicy) (*Table, FillResult, error) {
	var result FillResult
	var undefined, nonFinite []string

	cols := make([]Column, len(t.columns))
	for c, col := range t.columns {
		cols[c] = col.clone()
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}

		var fill Value
		switch col.Kind {
		case KindNumeric:
			mean, err := columnMean(col)
			switch {
			case errors.Is(err, ErrUndefinedAggregate):
				undefined = append(undefined, col.Name)
				mean = 0
			case err != nil:
				nonFinite = append(nonFinite, col.Name)
				continue
			}
			fill = Number(mean)
		default:
			fill = Text(FillText)
		}

		for r, v := range cols[c].Values {
			if !v.Valid {
				cols[c].Values[r] = fill
			}
		}
		result.Columns = append(result.Columns, FilledColumn{
			Column: col.Name,
			Cells:  missing,
			Value:  fill.Format(col.Kind),
		})
	}

	if len(nonFinite) > 0 {
		return nil, FillResult{}, &NonFiniteAggregateError{Columns: nonFinite}
	}
	if len(undefined) > 0 {
		if policy == EmptyNumericReject {
			return nil, FillResult{}, &UndefinedAggregateError{Columns: undefined}
		}
		result.Defaulted = undefined
	}

	return fromOwned(cols, t.rows), result, nil
}

// columnMean returns the mean of the non-missing cells. It fails with
// ErrUndefinedAggregate when there are none and ErrNonFiniteAggregate when
// infinities make the mean infinite or NaN.
func columnMean(col Column) (float64, error) {
	data := make(stats.Float64Data, 0, len(col.Values))
	for _, v := range col.Values {
		if v.Valid {
			data = append(data, v.Num)
		}
	}
	if len(data) == 0 {
		return 0, ErrUndefinedAggregate
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0, fmt.Errorf("mean of %q: %w", col.Name, err)
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, ErrNonFiniteAggregate
	}
	return mean, nil
}

// DropDuplicateRows keeps the first occurrence of every distinct row, in
// original order. Applying it twice is the same as applying it once.
func DropDuplicateRows(t *Table) *Table {
	if len(t.columns) == 0 {
		return t
	}

	seen := make(map[string]bool, t.rows)
	keep := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		k := rowKey(t, i)
		if seen[k] {
			continue
		}
		seen[k] = true
		keep = append(keep, i)
	}

	if len(keep) == t.rows {
		return t
	}
	return t.SelectRows(keep)
}
