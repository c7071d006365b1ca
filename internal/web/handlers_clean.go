package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/logging"
	"github.com/JonMunkholm/dataclean/internal/web/templates"
)

// Cleaning operations addressable as /clean/{operation}.
const (
	opEmptyColumns = "empty-columns"
	opColumns      = "columns"
	opMissingRows  = "missing-rows"
	opFill         = "fill"
	opDuplicates   = "duplicates"
)

// dropColumnsRequest is the body of POST /api/clean/columns.
type dropColumnsRequest struct {
	Columns []string `json:"columns" validate:"required,min=1,dive,required"`
}

// CleanResponse reports an applied operation.
type CleanResponse struct {
	Result   core.OperationResult `json:"result"`
	Messages []string             `json:"messages"`
	Warnings []string             `json:"warnings,omitempty"`
	Summary  core.Summary         `json:"summary"`
}

// runOperation dispatches op against ws.
func runOperation(ctx context.Context, ws *core.Workspace, op string, columns []string) (core.OperationResult, error) {
	switch op {
	case opEmptyColumns:
		return ws.RemoveEmptyColumns(ctx)
	case opColumns:
		return ws.RemoveColumns(ctx, columns)
	case opMissingRows:
		return ws.DropRowsWithMissing(ctx)
	case opFill:
		return ws.FillMissingValues(ctx)
	case opDuplicates:
		return ws.RemoveDuplicates(ctx)
	default:
		return core.OperationResult{}, fmt.Errorf("%w %q", errUnknownOperation, op)
	}
}

// handleCleanAPI applies a cleaning operation and answers with JSON.
// Rejected operations leave the dataset unchanged.
func (s *Server) handleCleanAPI(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "operation")

	var columns []string
	if op == opColumns {
		var req dropColumnsRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			s.respondError(w, r, fmt.Errorf("%w: %v", errInvalidRequest, err), http.StatusBadRequest)
			return
		}
		if err := s.validateRequest(req); err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		columns = req.Columns
	}

	ws, ok := s.requireWorkspace(w, r)
	if !ok {
		return
	}

	ctx := requestContext(r, ws.ID())
	res, err := runOperation(ctx, ws, op, columns)
	if err != nil {
		s.respondError(w, r.WithContext(ctx), err, statusFor(err))
		return
	}

	summary, err := ws.Summary()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	notices := outcomeNotices(res)
	respondJSON(w, r, http.StatusOK, CleanResponse{
		Result:   res,
		Messages: messages(notices, templates.LevelSuccess),
		Warnings: messages(notices, templates.LevelWarning),
		Summary:  summary,
	})
}

// handleCleanForm applies a cleaning operation from the page and redirects
// back to it with the outcome queued as a flash.
func (s *Server) handleCleanForm(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "operation")

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}
	var columns []string
	if op == opColumns {
		req := dropColumnsRequest{Columns: r.PostForm["columns"]}
		if err := s.validateRequest(req); err != nil {
			s.flash(w, r, templates.Notice{Level: templates.LevelWarning, Message: "Select at least one column to remove."})
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		columns = req.Columns
	}

	ws, err := s.workspace(r)
	if err != nil {
		s.redirectWithError(w, r, err)
		return
	}

	ctx := requestContext(r, ws.ID())
	res, err := runOperation(ctx, ws, op, columns)
	if err != nil {
		s.redirectWithError(w, r.WithContext(ctx), err)
		return
	}

	logging.FromContext(ctx).Info("cleaning applied",
		"action", string(res.Action),
		"rows_before", res.RowsBefore,
		"rows_after", res.RowsAfter,
	)
	for _, n := range outcomeNotices(res) {
		s.flash(w, r, n)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
