package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/dataclean/internal/fileio"
	"github.com/JonMunkholm/dataclean/internal/logging"
)

// handleExport downloads the current dataset as CSV or XLSX. The file is
// built in memory first so an encoding failure can still produce an error
// response.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := fileio.Format(chi.URLParam(r, "format"))
	if format != fileio.FormatCSV && format != fileio.FormatXLSX {
		err := fmt.Errorf("%w %q", fileio.ErrUnsupportedFormat, format)
		s.respondError(w, r, err, statusFor(err))
		return
	}

	ws, ok := s.requireWorkspace(w, r)
	if !ok {
		return
	}
	t, err := ws.ExportSnapshot()
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := fileio.Write(&buf, t, format); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(requestContext(r, ws.ID())).Info("dataset exported",
		"format", string(format),
		"rows", t.NumRows(),
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", fileio.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileio.ExportFilename(format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}
