package web

// handlers_excel.go serves the spreadsheet endpoints: roster import from an
// uploaded workbook, the stateless generate flow (upload + template in one
// request), and export of the stored roster with the stored template.

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/nandapratama/wablast/internal/core"
	"github.com/nandapratama/wablast/internal/excel"
	"github.com/nandapratama/wablast/internal/logging"
)

// uploadedFile extracts the "file" part of a multipart upload, bounded by
// the configured size limit.
func (s *Server) uploadedFile(r *http.Request) (multipart.File, error) {
	if err := r.ParseMultipartForm(s.cfg.Roster.MaxUploadSize); err != nil {
		return nil, &core.ParseError{Message: "invalid multipart form", Err: err}
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, &core.ValidationError{Field: "file", Message: "no file provided"}
	}
	return file, nil
}

func (s *Server) handleReadExcel(w http.ResponseWriter, r *http.Request) {
	file, err := s.uploadedFile(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer file.Close()

	entries, err := excel.ReadRecipients(file, s.columns)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.roster.AddBatch(r.Context(), entries)
	if err != nil {
		// Entries inserted before the failure stay; report what made it in.
		logging.FromContext(r.Context()).Warn("batch import aborted",
			"added", len(result.Added), "error", err)
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("roster imported",
		"added", len(result.Added), "skipped", result.Skipped)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerateExcel(w http.ResponseWriter, r *http.Request) {
	file, err := s.uploadedFile(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer file.Close()

	raw := r.FormValue("template")
	if raw == "" {
		respondError(w, r, &core.ValidationError{Field: "template", Message: "cannot be empty"})
		return
	}
	renderer, err := core.CompileTemplate(raw)
	if err != nil {
		respondError(w, r, err)
		return
	}

	names, err := excel.ReadNames(file, s.columns)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.writeWorkbook(w, r, excel.RenderRows(renderer, names))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	stored, err := s.templates.GetTemplate(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	renderer, err := core.CompileTemplate(stored.Raw)
	if err != nil {
		respondError(w, r, err)
		return
	}

	recipients, err := s.roster.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows := make([]core.ExportRow, len(recipients))
	for i, rec := range recipients {
		msg := renderer.RenderRecipient(rec)
		rows[i] = core.ExportRow{Name: rec.Name, Full: msg.Full, SingleLine: msg.SingleLine}
	}

	s.writeWorkbook(w, r, rows)
}

// writeWorkbook serializes rows and streams the workbook as a download.
func (s *Server) writeWorkbook(w http.ResponseWriter, r *http.Request, rows []core.ExportRow) {
	buf, err := excel.WriteRendered(rows)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", excel.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", excel.ExportFileName))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Error("workbook write aborted", "error", err)
	}
}
