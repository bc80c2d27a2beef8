package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	original := logger.Log
	t.Cleanup(func() { logger.Log = original })

	core, logs := observer.New(zap.InfoLevel)
	logger.Log = zap.New(core).Sugar()
	return logs
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"created", http.StatusCreated, `{"message":"Contribution recorded"}`},
		{"conflict", http.StatusConflict, `{"error":"conflict: already contributed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)

			var seenID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = RequestIDFromContext(r.Context())
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			rr := httptest.NewRecorder()
			LoggingMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/circles/x/contribute", nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, rr.Body.String())

			reqID := rr.Header().Get("X-Request-ID")
			require.NotEmpty(t, reqID)
			assert.Equal(t, reqID, seenID)

			response := logs.FilterMessage("response").All()
			require.Len(t, response, 1)
			fields := response[0].ContextMap()
			assert.Equal(t, reqID, fields["request_id"])
			assert.EqualValues(t, tt.status, fields["status"])
			assert.Len(t, logs.FilterMessage("request").All(), 1)
		})
	}
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", RequestIDFromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
}
