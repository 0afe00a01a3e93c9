package web

// handlers_names.go serves the roster CRUD endpoints. Listing supports an
// optional case-insensitive name search plus clamped pagination, mirroring
// what the list UI needs.

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nandapratama/wablast/internal/core"
)

// namesPage is the paged roster listing response.
type namesPage struct {
	Items      []core.Recipient `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

func (s *Server) handleListNames(w http.ResponseWriter, r *http.Request) {
	recipients, err := s.roster.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	pageSize := queryInt(r, "page_size", s.cfg.Roster.PageSize)
	page := queryInt(r, "page", 1)

	items, err := core.Paginate(recipients, pageSize, page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	totalPages := core.TotalPages(len(recipients), pageSize)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	writeJSON(w, http.StatusOK, namesPage{
		Items:      items,
		Total:      len(recipients),
		Page:       page,
		TotalPages: totalPages,
	})
}

type nameRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

func (s *Server) handleAddName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &core.ValidationError{Message: "invalid JSON body"})
		return
	}

	var name, phone string
	if req.Name != nil {
		name = *req.Name
	}
	if req.PhoneNumber != nil {
		phone = *req.PhoneNumber
	}

	rec, err := s.roster.Add(r.Context(), name, phone)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, &core.ValidationError{Message: "invalid JSON body"})
		return
	}

	rec, err := s.roster.Update(r.Context(), id, core.UpdateParams{
		Name:  req.Name,
		Phone: req.PhoneNumber,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteName(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.roster.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// pathID parses the {id} URL parameter as a recipient id.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &core.ValidationError{Field: "id", Message: "must be a valid UUID"}
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
