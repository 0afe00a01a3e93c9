package web

// handlers_template.go serves the single shared template. Saves go through
// the autosave debouncer so a burst of editor keystrokes becomes one
// persistence call; compilation happens up front so malformed templates are
// rejected before they are ever stored.

import (
	"encoding/json"
	"net/http"

	"github.com/nandapratama/wablast/internal/core"
)

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	stored, err := s.templates.GetTemplate(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

type saveTemplateRequest struct {
	Template string `json:"template"`
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req saveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &core.ValidationError{Message: "invalid JSON body"})
		return
	}

	// Reject malformed placeholder syntax before it can be persisted.
	if _, err := core.CompileTemplate(req.Template); err != nil {
		respondError(w, r, err)
		return
	}

	s.saver.Arm(req.Template)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
