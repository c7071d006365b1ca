package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func mustTable(t *testing.T, cols ...Column) *Table {
	t.Helper()
	tbl, err := NewTable(cols...)
	require.NoError(t, err)
	return tbl
}

func TestNewTable(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		tbl := mustTable(t,
			NumericColumn("A", f(1), nil, f(3)),
			TextColumn("B", s("x"), s("y"), nil),
		)
		assert.Equal(t, 3, tbl.NumRows())
		assert.Equal(t, 2, tbl.NumColumns())
		assert.Equal(t, []string{"A", "B"}, tbl.ColumnNames())
		assert.True(t, tbl.HasColumn("A"))
		assert.False(t, tbl.HasColumn("C"))
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := NewTable(NumericColumn("A", f(1)), TextColumn("A", s("x")))
		assert.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("ragged columns rejected", func(t *testing.T) {
		_, err := NewTable(NumericColumn("A", f(1), f(2)), TextColumn("B", s("x")))
		assert.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := NewTable(Column{Name: "A", Kind: Kind(7), Values: []Value{Missing()}})
		assert.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("no columns means no rows", func(t *testing.T) {
		tbl := mustTable(t)
		assert.Equal(t, 0, tbl.NumRows())
	})

	t.Run("with rows keeps row count without columns", func(t *testing.T) {
		tbl, err := NewTableWithRows(4)
		require.NoError(t, err)
		assert.Equal(t, 4, tbl.NumRows())
		assert.Equal(t, 0, tbl.NumColumns())

		_, err = NewTableWithRows(-1)
		assert.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("input slices are copied", func(t *testing.T) {
		col := NumericColumn("A", f(1), f(2))
		tbl := mustTable(t, col)
		col.Values[0] = Number(99)

		got, ok := tbl.Column("A")
		require.True(t, ok)
		assert.Equal(t, 1.0, got.Values[0].Num)
	})
}

func TestNumberNormalizes(t *testing.T) {
	assert.False(t, Number(math.NaN()).Valid)
	assert.False(t, math.Signbit(Number(math.Copysign(0, -1)).Num))
	assert.True(t, Number(0).Valid)
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, "", Missing().Format(KindNumeric))
	assert.Equal(t, "", Missing().Format(KindText))
	assert.Equal(t, "2", Number(2).Format(KindNumeric))
	assert.Equal(t, "2.5", Number(2.5).Format(KindNumeric))
	assert.Equal(t, "hi", Text("hi").Format(KindText))
}

func TestColumnAccessorReturnsCopy(t *testing.T) {
	tbl := mustTable(t, TextColumn("B", s("x")))
	col, _ := tbl.Column("B")
	col.Values[0] = Text("mutated")

	again, _ := tbl.Column("B")
	assert.Equal(t, "x", again.Values[0].Str)

	_, ok := tbl.Column("missing")
	assert.False(t, ok)
}

func TestSelectRowsAndHead(t *testing.T) {
	tbl := mustTable(t,
		NumericColumn("A", f(1), f(2), f(3)),
		TextColumn("B", s("a"), s("b"), s("c")),
	)

	sel := tbl.SelectRows([]int{2, 0, 9, -1})
	assert.Equal(t, 2, sel.NumRows())
	assert.Equal(t, []string{"3", "c"}, sel.FormatRow(0))
	assert.Equal(t, []string{"1", "a"}, sel.FormatRow(1))

	assert.Equal(t, 2, tbl.Head(2).NumRows())
	assert.Equal(t, 3, tbl.Head(10).NumRows())
	assert.Equal(t, 0, tbl.Head(-5).NumRows())
	assert.Equal(t, 3, tbl.NumRows(), "source table unchanged")
}

func TestTableEqual(t *testing.T) {
	a := mustTable(t, NumericColumn("A", f(1), nil))
	b := mustTable(t, NumericColumn("A", f(1), nil))
	c := mustTable(t, NumericColumn("A", f(1), f(2)))
	d := mustTable(t, TextColumn("A", s("1"), nil))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d), "kind differs")
	assert.False(t, a.Equal(nil))

	var nilTable *Table
	assert.True(t, nilTable.Equal(nil))
}

func TestTableString(t *testing.T) {
	tbl := mustTable(t, NumericColumn("A", f(1)), TextColumn("B", s("x")))
	assert.Equal(t, "Table{rows: 1, columns: [A, B]}", tbl.String())
}

func TestErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"unreadable", &UnreadableInputError{Source: "x.csv", Err: errors.New("eof")}, ErrUnreadableInput},
		{"invalid column", &InvalidColumnError{Columns: []string{"Z"}}, ErrInvalidColumn},
		{"would empty", &WouldEmptyDatasetError{Operation: "drop", Rows: 2}, ErrWouldEmptyDataset},
		{"undefined aggregate", &UndefinedAggregateError{Columns: []string{"A"}}, ErrUndefinedAggregate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.target)
		})
	}

	cause := errors.New("zip: not a valid zip file")
	err := &UnreadableInputError{Source: "book.xlsx", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "book.xlsx")
}
