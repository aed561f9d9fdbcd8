package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
)

type PaymentHandler struct {
	s *service.PaymentService
}

func NewPaymentHandler(s *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{s: s}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	// The success redirect comes straight from the provider's browser
	// hop, so it carries no bearer token. The session id is the proof.
	r.Patch("/payment-success", h.ReconcileSuccess)

	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Post("/create-checkout-session", h.CreateCheckoutSession)
		r.Get("/payments", h.ListPayments)
	})
}

func (h *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var input model.CreateCheckoutSessionInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.s.CreateCheckoutSession(r.Context(), &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *PaymentHandler) ReconcileSuccess(w http.ResponseWriter, r *http.Request) {
	res, err := h.s.Reconcile(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "payment recorded"
	if res.Existing {
		message = "payment already recorded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       message,
		"transactionId": res.TransactionId,
		"appUpdate": map[string]any{
			"applied":       res.Applied,
			"applicationId": res.ApplicationId,
		},
		"paymentResult": map[string]any{
			"insertedId": res.PaymentId,
			"existing":   res.Existing,
		},
	})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.s.ListPayments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*model.Payment{}
	}
	writeJSON(w, http.StatusOK, list)
}
