package templates

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dataclean/internal/core"
)

// Notice levels map to alert styles.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notice is a one-line message shown above the panels.
type Notice struct {
	Level   string
	Message string
}

// NoticeAlert renders n as a styled alert box.
func NoticeAlert(n Notice) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="alert alert-`)
		h.text(n.Level)
		h.raw(`" role="status">`)
		h.text(n.Message)
		h.raw(`</div>`)
	})
}

// ErrorAlert renders a user-facing error with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="alert alert-error" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<div>`)
			h.text(action)
			h.raw(`</div>`)
		}
		if code != "" {
			h.raw(`<small>Code: `)
			h.text(code)
			h.raw(`</small>`)
		}
		h.raw(`</div>`)
	})
}

// DataTable renders t with a header row. Missing cells are shown as an
// empty, dimmed cell.
func DataTable(t *core.Table) templ.Component {
	return component(func(h *html) {
		if t == nil {
			return
		}
		cols := t.Columns()
		h.raw(`<table><thead><tr>`)
		for _, c := range cols {
			h.raw(`<th>`)
			h.text(c.Name)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for i := 0; i < t.NumRows(); i++ {
			h.raw(`<tr>`)
			for _, c := range cols {
				v := c.Values[i]
				if !v.Valid {
					h.raw(`<td class="missing"></td>`)
					continue
				}
				h.raw(`<td>`)
				h.text(v.Format(c.Kind))
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

// SummaryPanel renders the per-column overview of the dataset.
func SummaryPanel(s core.Summary) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="summary"><h2>Data Summary</h2><p>`)
		h.int(s.Rows)
		h.raw(` rows, `)
		h.int(len(s.Columns))
		h.raw(` columns</p><table><thead><tr><th>#</th><th>Column</th><th>Non-Null Count</th><th>Missing</th><th>Type</th></tr></thead><tbody>`)
		for i, c := range s.Columns {
			h.raw(`<tr><td>`)
			h.int(i)
			h.raw(`</td><td>`)
			h.text(c.Name)
			h.raw(`</td><td>`)
			h.int(c.NonMissing)
			h.raw(`</td><td>`)
			h.int(c.Missing)
			h.raw(`</td><td>`)
			h.text(c.Kind)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
}

// PreviewPanel renders the first rows of the dataset.
func PreviewPanel(t *core.Table, rows int) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="preview"><h2>Data Preview</h2><h3>First `)
		h.int(rows)
		h.raw(` Rows</h3>`)
		h.render(DataTable(t))
		h.raw(`</section>`)
	})
}

// MissingPanel renders the missing-value report and the cleaning actions
// that apply to it.
func MissingPanel(entries []core.MissingEntry, allMissing []string, columns []string) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="missing"><h2>Missing Values</h2>`)
		if len(entries) == 0 {
			h.render(NoticeAlert(Notice{Level: LevelSuccess, Message: "No missing values found!"}))
			h.raw(`</section>`)
			return
		}

		h.raw(`<table><thead><tr><th>Column</th><th>Missing Count</th><th>Missing Percentage</th></tr></thead><tbody>`)
		for _, e := range entries {
			h.raw(`<tr><td>`)
			h.text(e.Column)
			h.raw(`</td><td>`)
			h.int(e.Count)
			h.raw(`</td><td>`)
			h.raw(strconv.FormatFloat(e.Percent, 'f', 2, 64))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		if len(allMissing) > 0 {
			h.render(NoticeAlert(Notice{
				Level:   LevelWarning,
				Message: "These columns have ALL missing values: " + strings.Join(allMissing, ", "),
			}))
			h.render(NoticeAlert(Notice{
				Level:   LevelInfo,
				Message: "Consider removing these empty columns first before cleaning other missing values.",
			}))
			h.raw(`<form method="post" action="/clean/empty-columns"><button type="submit" class="danger">Remove empty columns</button></form>`)
		}

		h.raw(`<p><strong>What would you like to do?</strong></p><div class="actions">`)
		h.raw(`<form method="post" action="/clean/missing-rows"><button type="submit" class="danger">Delete rows with missing values</button></form>`)
		h.raw(`<form method="post" action="/clean/fill"><button type="submit">Fill missing values</button></form>`)
		h.raw(`</div>`)
		h.render(ColumnPicker(columns))
		h.raw(`</section>`)
	})
}

// ColumnPicker renders a form that removes the checked columns.
func ColumnPicker(columns []string) templ.Component {
	return component(func(h *html) {
		if len(columns) == 0 {
			return
		}
		h.raw(`<details><summary>Remove selected columns</summary><form method="post" action="/clean/columns">`)
		for _, c := range columns {
			h.raw(`<label><input type="checkbox" name="columns" value="`)
			h.text(c)
			h.raw(`"> `)
			h.text(c)
			h.raw(`</label><br>`)
		}
		h.raw(`<button type="submit" class="danger">Remove columns</button></form></details>`)
	})
}

// DuplicatesPanel renders the duplicate report with its preview rows.
func DuplicatesPanel(r core.DuplicateReport, preview *core.Table) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="duplicates"><h2>Duplicate Records</h2>`)
		if r.Count == 0 {
			h.render(NoticeAlert(Notice{Level: LevelSuccess, Message: "No duplicate rows found!"}))
			h.raw(`</section>`)
			return
		}
		h.render(NoticeAlert(Notice{Level: LevelWarning, Message: "Found " + strconv.Itoa(r.Count) + " duplicate rows"}))
		h.raw(`<p>Preview of duplicate rows:</p>`)
		h.render(DataTable(preview))
		h.raw(`<h3>Remove Duplicates</h3><form method="post" action="/clean/duplicates"><button type="submit" class="danger">Remove Duplicate Rows</button></form>`)
		h.raw(`</section>`)
	})
}

// DownloadPanel links the export formats.
func DownloadPanel() templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="download"><h2>Download Cleaned Data</h2><div class="actions">`)
		h.raw(`<a class="button" href="/export/csv">Download as CSV</a>`)
		h.raw(`<a class="button" href="/export/xlsx">Download as Excel</a>`)
		h.raw(`</div></section>`)
	})
}

// UploadForm renders the file picker.
func UploadForm(maxFileSize string) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="upload"><p>Upload a <strong>CSV</strong> or an <strong>Excel</strong> file`)
		if maxFileSize != "" {
			h.raw(` <small>(up to `)
			h.text(maxFileSize)
			h.raw(`)</small>`)
		}
		h.raw(`</p><form method="post" action="/upload" enctype="multipart/form-data">`)
		h.raw(`<input type="file" name="file" accept=".csv,.xlsx,.xlsm" required> `)
		h.raw(`<button type="submit">Upload</button></form></section>`)
	})
}
