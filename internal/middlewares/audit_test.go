package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditRouter(publisher AuditPublisher, userID uuid.UUID, status int) http.Handler {
	r := chi.NewRouter()
	r.Use(LoggingMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithUserID(req.Context(), userID)))
		})
	})
	r.Use(AuditMiddleware(publisher))

	h := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(status) }
	r.Post("/circles/{circleID}/contribute", h)
	r.Get("/circles/{circleID}", h)
	return r
}

func TestAuditMiddleware_PublishesSuccessfulWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	published := make(chan models.Event, 1)

	publisher := NewMockAuditPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), userID.String(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, key string, value any) error {
			published <- value.(models.Event)
			return nil
		})

	req := httptest.NewRequest(http.MethodPost, "/circles/"+uuid.NewString()+"/contribute", nil)
	rr := httptest.NewRecorder()
	auditRouter(publisher, userID, http.StatusCreated).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	select {
	case event := <-published:
		assert.Equal(t, models.EventAuditRequest, event.Type)
		assert.Equal(t, userID, event.RecipientID)
		assert.Equal(t, "/circles/{circleID}/contribute", event.Payload["route"])
		assert.Equal(t, http.MethodPost, event.Payload["method"])
		assert.Equal(t, http.StatusCreated, event.Payload["status"])
		assert.Equal(t, rr.Header().Get("X-Request-ID"), event.Payload["request_id"])
	case <-time.After(2 * time.Second):
		require.FailNow(t, "audit event not published")
	}
}

func TestAuditMiddleware_SkipsReadsAndFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no Publish expected
	publisher := NewMockAuditPublisher(ctrl)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"read", http.MethodGet, "/circles/" + uuid.NewString(), http.StatusOK},
		{"rejected write", http.MethodPost, "/circles/" + uuid.NewString() + "/contribute", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			auditRouter(publisher, uuid.New(), tt.status).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rr.Code)
		})
	}

	time.Sleep(50 * time.Millisecond)
}
