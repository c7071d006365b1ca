package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingReport(t *testing.T) {
	t.Run("single missing cell", func(t *testing.T) {
		tbl := mustTable(t, NumericColumn("A", f(1), nil, f(3)))
		report := MissingReport(tbl)
		require.Len(t, report, 1)
		assert.Equal(t, MissingEntry{Column: "A", Count: 1, Percent: 33.33}, report[0])
	})

	t.Run("complete columns are omitted", func(t *testing.T) {
		tbl := mustTable(t,
			NumericColumn("A", f(1), f(2)),
			TextColumn("B", nil, s("x")),
			TextColumn("C", s("y"), s("z")),
		)
		report := MissingReport(tbl)
		require.Len(t, report, 1)
		assert.Equal(t, "B", report[0].Column)
		assert.Equal(t, 50.0, report[0].Percent)
		for _, e := range report {
			assert.Positive(t, e.Count)
		}
	})

	t.Run("column order preserved", func(t *testing.T) {
		tbl := mustTable(t,
			TextColumn("Z", nil, nil),
			NumericColumn("A", nil, f(1)),
		)
		report := MissingReport(tbl)
		require.Len(t, report, 2)
		assert.Equal(t, "Z", report[0].Column)
		assert.Equal(t, 100.0, report[0].Percent)
		assert.Equal(t, "A", report[1].Column)
	})

	t.Run("clean table has empty report", func(t *testing.T) {
		tbl := mustTable(t, NumericColumn("A", f(1)))
		assert.Empty(t, MissingReport(tbl))
	})

	t.Run("percent rounds to two decimals", func(t *testing.T) {
		tbl := mustTable(t, NumericColumn("A", nil, nil, f(1)))
		assert.Equal(t, 66.67, MissingReport(tbl)[0].Percent)
	})
}

func TestAllMissingColumns(t *testing.T) {
	tbl := mustTable(t,
		NumericColumn("Empty", nil, nil, nil, nil, nil),
		TextColumn("Partial", nil, s("a"), nil, nil, nil),
		NumericColumn("Full", f(1), f(2), f(3), f(4), f(5)),
	)
	assert.Equal(t, []string{"Empty"}, AllMissingColumns(tbl))

	report := MissingReport(tbl)
	require.Len(t, report, 2)
	assert.Equal(t, MissingEntry{Column: "Empty", Count: 5, Percent: 100}, report[0])

	t.Run("dropping them leaves none", func(t *testing.T) {
		out, err := DropColumns(tbl, AllMissingColumns(tbl)...)
		require.NoError(t, err)
		assert.Empty(t, AllMissingColumns(out))
		assert.Equal(t, []string{"Partial", "Full"}, out.ColumnNames())
	})

	t.Run("zero rows has no all-missing columns", func(t *testing.T) {
		empty := mustTable(t, NumericColumn("A"), TextColumn("B"))
		assert.Empty(t, AllMissingColumns(empty))
		assert.Empty(t, MissingReport(empty))
	})
}

func TestFindDuplicates(t *testing.T) {
	t.Run("adjacent pair", func(t *testing.T) {
		tbl := mustTable(t,
			NumericColumn("A", f(1), f(1), f(2)),
			TextColumn("B", s("x"), s("x"), s("y")),
		)
		report := FindDuplicates(tbl)
		assert.Equal(t, 1, report.Count)
		assert.Equal(t, []int{0, 1}, report.RowIndices)
	})

	t.Run("non-adjacent group of three", func(t *testing.T) {
		tbl := mustTable(t, TextColumn("B", s("a"), s("b"), s("a"), s("c"), s("a")))
		report := FindDuplicates(tbl)
		assert.Equal(t, 2, report.Count)
		assert.Equal(t, []int{0, 2, 4}, report.RowIndices)
	})

	t.Run("missing cells compare equal", func(t *testing.T) {
		tbl := mustTable(t,
			NumericColumn("A", nil, nil),
			TextColumn("B", s("x"), s("x")),
		)
		assert.Equal(t, 1, FindDuplicates(tbl).Count)
	})

	t.Run("missing differs from empty text and zero", func(t *testing.T) {
		tbl := mustTable(t,
			TextColumn("B", nil, s("")),
			NumericColumn("A", nil, f(0)),
		)
		assert.Zero(t, FindDuplicates(tbl).Count)
	})

	t.Run("text values cannot forge separators", func(t *testing.T) {
		tbl := mustTable(t,
			TextColumn("A", s("a;s1:b"), s("a")),
			TextColumn("B", s("c"), s("b;s1:c")),
		)
		assert.Zero(t, FindDuplicates(tbl).Count)
	})

	t.Run("no duplicates", func(t *testing.T) {
		tbl := mustTable(t, NumericColumn("A", f(1), f(2)))
		report := FindDuplicates(tbl)
		assert.Zero(t, report.Count)
		assert.Empty(t, report.RowIndices)
	})

	t.Run("zero rows", func(t *testing.T) {
		report := FindDuplicates(mustTable(t, NumericColumn("A")))
		assert.Zero(t, report.Count)
	})

	t.Run("no columns", func(t *testing.T) {
		tbl, err := NewTableWithRows(3)
		require.NoError(t, err)
		assert.Zero(t, FindDuplicates(tbl).Count)
	})
}

func TestSummarize(t *testing.T) {
	tbl := mustTable(t,
		NumericColumn("A", f(1), nil),
		TextColumn("B", s("x"), s("y")),
	)
	sum := Summarize(tbl)
	assert.Equal(t, 2, sum.Rows)
	assert.Equal(t, []ColumnSummary{
		{Name: "A", Kind: "numeric", NonMissing: 1, Missing: 1},
		{Name: "B", Kind: "text", NonMissing: 2, Missing: 0},
	}, sum.Columns)
}
