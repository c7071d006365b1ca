package web

import (
	"net/http"

	"github.com/JonMunkholm/dataclean/internal/core"
)

// SummaryResponse is the dataset overview.
type SummaryResponse struct {
	Session core.StateInfo `json:"session"`
	Summary core.Summary   `json:"summary"`
}

// MissingResponse is the missing-value report.
type MissingResponse struct {
	Missing           []core.MissingEntry `json:"missing"`
	AllMissingColumns []string            `json:"allMissingColumns"`
}

// DuplicatesResponse is the duplicate report. RowIndices lists every row in
// a duplicate group; Preview holds at most limit of them.
type DuplicatesResponse struct {
	DuplicateCount int       `json:"duplicateCount"`
	RowIndices     []int     `json:"rowIndices"`
	Preview        TableView `json:"preview"`
}

// requireWorkspace resolves the caller's workspace or writes the error.
func (s *Server) requireWorkspace(w http.ResponseWriter, r *http.Request) (*core.Workspace, bool) {
	ws, err := s.workspace(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return nil, false
	}
	return ws, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.requireWorkspace(w, r)
	if !ok {
		return
	}
	summary, err := ws.Summary()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	respondJSON(w, r, http.StatusOK, SummaryResponse{Session: ws.State().Info(), Summary: summary})
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.requireWorkspace(w, r)
	if !ok {
		return
	}
	report, err := ws.MissingReport()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	allMissing, err := ws.AllMissingColumns()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	respondJSON(w, r, http.StatusOK, MissingResponse{
		Missing:           nonNil(report),
		AllMissingColumns: nonNil(allMissing),
	})
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.requireWorkspace(w, r)
	if !ok {
		return
	}
	t, err := ws.ExportSnapshot()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	report := core.FindDuplicates(t)
	limit := parseIntParam(r, "limit", s.cfg.Cleaning.PreviewRows)

	respondJSON(w, r, http.StatusOK, DuplicatesResponse{
		DuplicateCount: report.Count,
		RowIndices:     nonNil(report.RowIndices),
		Preview:        newTableView(t.SelectRows(truncate(report.RowIndices, limit)), len(report.RowIndices)),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.requireWorkspace(w, r)
	if !ok {
		return
	}
	t, err := ws.ExportSnapshot()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	limit := parseIntParam(r, "limit", s.cfg.Cleaning.PreviewRows)
	respondJSON(w, r, http.StatusOK, newTableView(t.Head(limit), t.NumRows()))
}
