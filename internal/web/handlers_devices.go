package web

// handlers_devices.go serves the gateway device registry. The registry is a
// shared key-value collaborator; which device a send uses is always an
// explicit caller choice passed to /api/send-whatsapp.

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nandapratama/wablast/internal/core"
	"github.com/nandapratama/wablast/internal/devices"
)

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	list, err := s.devices.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": list})
}

func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var d devices.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondError(w, r, &core.ValidationError{Message: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(d.ID) == "" {
		respondError(w, r, &core.ValidationError{Field: "device_id", Message: "is required"})
		return
	}
	if strings.TrimSpace(d.Label) == "" {
		respondError(w, r, &core.ValidationError{Field: "name", Message: "is required"})
		return
	}

	if err := s.devices.Add(r.Context(), d); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.devices.Remove(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
