package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(m *MockTokener)
	}{
		{
			name: "missing bearer token",
			mockSetup: func(m *MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("authorization header missing"))
			},
		},
		{
			name: "expired token",
			mockSetup: func(m *MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("expired", nil)
				m.EXPECT().GetUserID(gomock.Any(), "expired").Return(uuid.Nil, errors.New("token is expired"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tokener := NewMockTokener(ctrl)
			tt.mockSetup(tokener)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("protected handler must not run")
			})

			rr := httptest.NewRecorder()
			AuthMiddleware(tokener)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/circles", nil))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

func TestAuthMiddleware_StoresCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	tokener := NewMockTokener(ctrl)
	tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("valid", nil)
	tokener.EXPECT().GetUserID(gomock.Any(), "valid").Return(userID, nil)

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	AuthMiddleware(tokener)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wallet", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, userID, seen)
}

func TestContextAccessors(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, RequestIDFromContext(context.Background()))

	userID := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), userID))
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}
