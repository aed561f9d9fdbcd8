package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
)

const approvedTuitionsTTL = 30 * time.Second

type TuitionHandler struct {
	s     *service.TuitionService
	cache service.Cache
}

func NewTuitionHandler(s *service.TuitionService, cache service.Cache) *TuitionHandler {
	return &TuitionHandler{s: s, cache: cache}
}

func (h *TuitionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/tuitions", h.List)
	r.Get("/approved-tuitions", h.ListApproved)

	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/tuitions", h.Create)
		r.Get("/my-tuitions", h.ListMine)
		r.Patch("/tuitions/{id}", h.Update)
		r.Patch("/tuitions/{id}/status", h.SetStatus)
		r.Delete("/tuitions/{id}", h.Delete)
	})
}

func (h *TuitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.CreateTuitionInput
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

func (h *TuitionHandler) List(w http.ResponseWriter, r *http.Request) {
	tuitions, err := h.s.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tuitions == nil {
		tuitions = []*model.Tuition{}
	}
	writeJSON(w, http.StatusOK, tuitions)
}

func (h *TuitionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	tuitions, err := h.s.ListMine(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tuitions == nil {
		tuitions = []*model.Tuition{}
	}
	writeJSON(w, http.StatusOK, tuitions)
}

// ListApproved serves the public browse page. The result is cached
// briefly per query string; staleness up to the TTL is acceptable.
func (h *TuitionHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	key := "approved-tuitions:" + r.URL.RawQuery
	if data, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	q := &model.ApprovedTuitionsQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = limit
	}

	result, err := h.s.ListApproved(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)

	h.cache.Set(r.Context(), key, data, approvedTuitionsTTL)
}

func (h *TuitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input model.UpdateTuitionInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.s.Update(r.Context(), id, &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": updated})
}

func (h *TuitionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

func (h *TuitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
