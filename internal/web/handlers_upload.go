package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/fileio"
	"github.com/JonMunkholm/dataclean/internal/logging"
)

// multipartOverhead is the slack allowed over the file size for the form
// envelope.
const multipartOverhead = 1 << 20

// UploadResponse is returned to API clients after a successful upload.
type UploadResponse struct {
	Session  core.StateInfo `json:"session"`
	FileName string         `json:"fileName"`
	Format   fileio.Format  `json:"format"`
	Summary  core.Summary   `json:"summary"`
	Message  string         `json:"message"`
}

// handleUpload decodes the multipart "file" field into a table and seeds a
// fresh workspace with it. An upload in a live session replaces that
// session's dataset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	format, tbl, filename, err := s.decodeUpload(w, r)
	if err != nil {
		s.metrics.UploadFinished(string(format), "rejected")
		s.uploadFailed(w, r, err)
		return
	}

	ws, err := s.freshWorkspace(w, r)
	if err != nil {
		s.metrics.UploadFinished(string(format), "rejected")
		s.uploadFailed(w, r, err)
		return
	}

	ctx := requestContext(r, ws.ID())
	ws.LoadIntoSession(ctx, tbl)
	s.metrics.UploadFinished(string(format), "loaded")

	logging.FromContext(ctx).Info("dataset loaded",
		"file", filename,
		"format", string(format),
		"rows", tbl.NumRows(),
		"columns", tbl.NumColumns(),
	)

	notices := outcomeNotices(core.OperationResult{Action: core.ActionLoad})
	if !wantsJSON(r) {
		for _, n := range notices {
			s.flash(w, r, n)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	respondJSON(w, r, http.StatusCreated, UploadResponse{
		Session:  ws.State().Info(),
		FileName: filename,
		Format:   format,
		Summary:  core.Summarize(tbl),
		Message:  notices[0].Message,
	})
}

// decodeUpload reads the form file and decodes it while holding a decode slot.
func (s *Server) decodeUpload(w http.ResponseWriter, r *http.Request) (fileio.Format, *core.Table, string, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, "", fmt.Errorf("%w: exceeds %s limit", fileio.ErrFileTooLarge, fileio.FormatBytes(maxSize))
		}
		return "", nil, "", errNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", nil, header.Filename, fmt.Errorf("%w: exceeds %s limit", fileio.ErrFileTooLarge, fileio.FormatBytes(maxSize))
	}

	format, err := fileio.DetectFormat(header.Filename)
	if err != nil {
		return "", nil, header.Filename, err
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		return format, nil, header.Filename, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.DecodeTimeout)
	defer cancel()

	tbl, err := fileio.Load(ctx, fileio.NewLimitReader(file, maxSize), format, header.Filename)
	if err != nil {
		return format, nil, header.Filename, err
	}
	return format, tbl, header.Filename, nil
}

// uploadFailed answers API clients with the mapped error and sends browsers
// back to the page with it as a flash.
func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) || isHTMX(r) {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.redirectWithError(w, r, err)
}

// redirectWithError logs err and returns the browser to the page with the
// mapped message queued.
func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	logging.FromContext(r.Context()).Warn("request error",
		"path", r.URL.Path,
		"error", err.Error(),
		"code", msg.Code,
	)
	s.flash(w, r, errorNotice(msg))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
