package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
)

type UserHandler struct {
	s *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{s: s}
}

func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	// Upsert and role lookup run before a session exists, so they stay
	// open; everything admin-gated goes through the verifier.
	r.Post("/users", h.Upsert)
	r.Get("/users", h.Search)
	r.Get("/users/{email}/role", h.GetRole)

	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Patch("/users/{id}", h.Update)
		r.Patch("/users/{id}/role", h.SetRole)
		r.Delete("/users/{id}", h.Delete)
	})
}

func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var input model.UpsertUserInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.s.Upsert(r.Context(), &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.s.Search(r.Context(), r.URL.Query().Get("searchText"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []*model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	email, err := parsePathParam(r, "email")
	if err != nil {
		writeError(w, r, err)
		return
	}

	role, err := h.s.GetRole(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"role": role.String()})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input model.UpdateUserInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.s.Update(r.Context(), id, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.s.SetRole(r.Context(), id, body.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
