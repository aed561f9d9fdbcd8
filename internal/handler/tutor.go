package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
)

type TutorHandler struct {
	s *service.TutorService
}

func NewTutorHandler(s *service.TutorService) *TutorHandler {
	return &TutorHandler{s: s}
}

func (h *TutorHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/tutors", h.List)
	r.Get("/approved-tutors", h.ListApproved)

	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/tutors", h.Create)
		r.Get("/my-tutors", h.ListMine)
		r.Patch("/tutors/{id}", h.Update)
		r.Patch("/tutors/{id}/status", h.SetStatus)
		r.Delete("/tutors/{id}", h.Delete)
	})
}

func (h *TutorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.CreateTutorProfileInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.s.Create(r.Context(), &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"insertedId": created.Id})
}

func (h *TutorHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.s.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []*model.TutorProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *TutorHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.s.ListApproved(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []*model.TutorProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *TutorHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.s.ListMine(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []*model.TutorProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *TutorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input model.UpdateTutorProfileInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.s.Update(r.Context(), id, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TutorHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.s.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TutorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.s.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deletedCount": 1})
}
