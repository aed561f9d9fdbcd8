package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
)

type ApplicationHandler struct {
	s *service.ApplicationService
}

func NewApplicationHandler(s *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{s: s}
}

func (h *ApplicationHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/applications", h.Create)
		r.Get("/applications", h.List)
		r.Patch("/applications/{id}", h.Update)
		r.Patch("/applications/{id}/pay", h.Pay)
		r.Delete("/applications/{id}", h.Delete)
	})
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.CreateApplicationInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.s.Create(r.Context(), &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"insertedId":  created.Id,
		"application": created,
	})
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := &model.ListApplicationsFilter{
		TutorEmail:   r.URL.Query().Get("tutorEmail"),
		StudentEmail: r.URL.Query().Get("studentEmail"),
	}

	if raw := r.URL.Query().Get("tuitionId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("malformed tuition id %q: %w", raw, errdefs.ErrInvalidArgument))
			return
		}
		filter.TuitionId = id
	}

	apps, err := h.s.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}

	writeJSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var patch model.ApplicationPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.s.Update(r.Context(), id, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.s.Pay(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
