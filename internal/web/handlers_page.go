package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/fileio"
	"github.com/JonMunkholm/dataclean/internal/logging"
	"github.com/JonMunkholm/dataclean/internal/session"
	"github.com/JonMunkholm/dataclean/internal/web/templates"
)

// handleDashboard renders the main page: the upload form, then the summary
// and cleaning panels once the session holds a dataset.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := templates.DashboardData{
		MaxFileSize: fileio.FormatBytes(s.cfg.Upload.MaxFileSize),
		Notices:     s.takeFlashes(w, r),
		PreviewRows: s.cfg.Cleaning.PreviewRows,
	}

	ws, err := s.workspace(r)
	switch {
	case err == nil:
		if t := ws.State().Get(); t != nil {
			s.fillDashboard(&data, t)
		}
	case errors.Is(err, session.ErrSessionNotFound):
		// First visit or expired session: just the upload form.
	default:
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

func (s *Server) fillDashboard(d *templates.DashboardData, t *core.Table) {
	dups := core.FindDuplicates(t)

	d.Loaded = true
	d.Summary = core.Summarize(t)
	d.Preview = t.Head(d.PreviewRows)
	d.Missing = core.MissingReport(t)
	d.AllMissing = core.AllMissingColumns(t)
	d.Columns = t.ColumnNames()
	d.Duplicates = dups
	d.DuplicatePreview = t.SelectRows(truncate(dups.RowIndices, d.PreviewRows))
}

func truncate(indices []int, n int) []int {
	if len(indices) > n {
		return indices[:n]
	}
	return indices
}
