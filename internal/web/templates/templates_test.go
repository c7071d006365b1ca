package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dataclean/internal/core"
)

func render(t *testing.T, d DashboardData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Dashboard(d).Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboardBeforeUpload(t *testing.T) {
	out := render(t, DashboardData{MaxFileSize: "50.0 MB"})
	assert.Contains(t, out, `<form method="post" action="/upload" enctype="multipart/form-data">`)
	assert.Contains(t, out, "up to 50.0 MB")
	assert.NotContains(t, out, "Data Summary")
}

func TestDashboardEscapesData(t *testing.T) {
	one := 1.0
	name := `<script>alert("x")</script>`
	tbl, err := core.NewTable(
		core.NumericColumn("A", &one, nil),
		core.TextColumn(name, &name, &name),
	)
	require.NoError(t, err)

	out := render(t, DashboardData{
		Loaded:      true,
		Notices:     []Notice{{Level: LevelSuccess, Message: "ok & done"}},
		Summary:     core.Summarize(tbl),
		Preview:     tbl,
		PreviewRows: 10,
		Missing:     core.MissingReport(tbl),
		Columns:     tbl.ColumnNames(),
		Duplicates:  core.FindDuplicates(tbl),
	})

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "ok &amp; done")
	assert.Contains(t, out, `<td class="missing"></td>`)
	assert.Contains(t, out, "50.00", "missing percentage with two decimals")
	assert.Contains(t, out, `action="/clean/fill"`)
	assert.Contains(t, out, "No duplicate rows found!")
	assert.Contains(t, out, `href="/export/xlsx"`)
}

func TestMissingPanelOffersEmptyColumnRemoval(t *testing.T) {
	var buf bytes.Buffer
	entries := []core.MissingEntry{{Column: "Notes", Count: 3, Percent: 100}}
	require.NoError(t, MissingPanel(entries, []string{"Notes"}, []string{"Notes"}).Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "These columns have ALL missing values: Notes")
	assert.Contains(t, out, `action="/clean/empty-columns"`)
	assert.Contains(t, out, `name="columns" value="Notes"`)
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("This would delete all rows", "Use fill instead", "DATA001").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Code: DATA001")
	assert.Contains(t, buf.String(), `role="alert"`)
}
