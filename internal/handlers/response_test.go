package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/middlewares"
	"github.com/sbilibin2017/gw-savings-circle/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve routes one request through a chi router so URL params resolve.
// A nil userID sends the request unauthenticated.
func serve(h http.HandlerFunc, method, pattern, target string, body any, userID uuid.UUID) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != uuid.Nil {
				req = req.WithContext(middlewares.WithUserID(req.Context(), userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Method(method, pattern, h)

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	case []byte:
		buf.Write(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrCircleNotFound, http.StatusNotFound},
		{services.ErrNotYourTurn, http.StatusForbidden},
		{services.ErrAlreadyClaimed, http.StatusConflict},
		{services.ErrCircleFull, http.StatusConflict},
		{services.ErrCycleNotComplete, http.StatusBadRequest},
		{fmt.Errorf("debit: %w", services.ErrInsufficientFunds), http.StatusPaymentRequired},
		{services.ErrLedgerInconsistency, http.StatusInternalServerError},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteServiceError_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	writeServiceError(rr, "claim payout", errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rr)["error"])
}

func TestWriteServiceError_ExposesDomainErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	writeServiceError(rr, "contribute", services.ErrAlreadyContributed)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, services.ErrAlreadyContributed.Error(), decodeBody(t, rr)["error"])
}

func TestRequireUser_Missing(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); ok {
			w.WriteHeader(http.StatusOK)
		}
	}

	rr := serve(h, http.MethodGet, "/", "/", nil, uuid.Nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rr)["error"])
}
