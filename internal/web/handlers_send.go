package web

// handlers_send.go serves the two send affordances: the gateway send with a
// device credential, and the manual wa.me share link. They are deliberately
// separate endpoints; the client chooses, the server never guesses.

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/nandapratama/wablast/internal/core"
	"github.com/nandapratama/wablast/internal/logging"
	"github.com/nandapratama/wablast/internal/wa"
)

type sendRequest struct {
	NameID   string `json:"name_id"`
	DeviceID string `json:"device_id"`
}

func (s *Server) handleSendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &core.ValidationError{Message: "invalid JSON body"})
		return
	}
	if req.DeviceID == "" {
		respondError(w, r, &core.ValidationError{Field: "device_id", Message: "is required"})
		return
	}

	id, err := parseID(req.NameID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	renderer, err := s.storedRenderer(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.delivery.Send(r.Context(), id, renderer, req.DeviceID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("send succeeded",
		"recipient_id", id, "device_id", req.DeviceID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"recipient": result.Recipient,
		"data":      result.Payload,
	})
}

func (s *Server) handleShareLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.roster.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	renderer, err := s.storedRenderer(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	msg := renderer.RenderRecipient(rec)

	// A share link without a phone opens the pick-a-chat dialog, so an
	// unset phone is fine here, unlike the gateway send.
	phone := ""
	if rec.PhoneNumber != "" {
		phone, err = s.phoneRule.Normalize(rec.PhoneNumber)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"url": wa.ShareLink(phone, msg.Full)})
}

// storedRenderer compiles the currently stored shared template.
func (s *Server) storedRenderer(r *http.Request) (*core.Renderer, error) {
	stored, err := s.templates.GetTemplate(r.Context())
	if err != nil {
		return nil, err
	}
	if stored.Raw == "" {
		return nil, &core.ValidationError{Field: "template", Message: "no template has been saved yet"}
	}
	return core.CompileTemplate(stored.Raw)
}

// parseID parses a recipient id from a request body field.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &core.ValidationError{Field: "name_id", Message: "must be a valid UUID"}
	}
	return id, nil
}
