package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
)

func TestMapErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"Authentication", errdefs.ErrAuthentication, http.StatusUnauthorized},
		{"PermissionDenied", errdefs.ErrPermissionDenied, http.StatusForbidden},
		{"NotFound", errdefs.ErrNotFound, http.StatusNotFound},
		{"InvalidArgument", errdefs.ErrInvalidArgument, http.StatusBadRequest},
		{"PaymentNotComplete", errdefs.ErrPaymentNotComplete, http.StatusBadRequest},
		{"AlreadyExists", errdefs.ErrAlreadyExists, http.StatusConflict},
		{"Upstream", errdefs.ErrUpstream, http.StatusBadGateway},
		{"Wrapped", fmt.Errorf("context: %w", errdefs.ErrPermissionDenied), http.StatusForbidden},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mapErr(tc.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("ClientErrorKeepsMessage", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/applications", nil)

		writeError(rec, req, fmt.Errorf("not related to this application: %w", errdefs.ErrPermissionDenied))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["message"], "not related")
	})

	t.Run("InternalErrorWithholdsDetail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/applications", nil)

		writeError(rec, req, errors.New("pq: connection refused at 10.0.0.5"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotContains(t, body["message"], "10.0.0.5")
	})
}

func TestDecodeBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tuitions", nil)
	var dst struct{}
	err := decodeBody(req, &dst)
	assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
}
