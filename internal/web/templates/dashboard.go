package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/dataclean/internal/core"
)

// DashboardData is everything the main page shows. Loaded is false until the
// session holds a dataset; the panels are skipped in that case.
type DashboardData struct {
	MaxFileSize string
	Notices     []Notice
	Loaded      bool

	Summary          core.Summary
	Preview          *core.Table
	PreviewRows      int
	Missing          []core.MissingEntry
	AllMissing       []string
	Columns          []string
	Duplicates       core.DuplicateReport
	DuplicatePreview *core.Table
}

// Dashboard renders the full page.
func Dashboard(d DashboardData) templ.Component {
	return Layout("Data Cleaning Application", component(func(h *html) {
		h.raw(`<h1>Data Cleaning Application</h1>`)
		for _, n := range d.Notices {
			h.render(NoticeAlert(n))
		}
		h.render(UploadForm(d.MaxFileSize))
		if !d.Loaded {
			return
		}
		h.render(SummaryPanel(d.Summary))
		h.render(PreviewPanel(d.Preview, d.PreviewRows))
		h.render(MissingPanel(d.Missing, d.AllMissing, d.Columns))
		h.render(DuplicatesPanel(d.Duplicates, d.DuplicatePreview))
		h.render(DownloadPanel())
	}))
}
