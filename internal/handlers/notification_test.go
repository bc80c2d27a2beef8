package handlers

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/sbilibin2017/gw-savings-circle/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestListNotificationsHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name               string
		target             string
		setupMocks         func(m *MockNotificationLister)
		expectedStatusCode int
	}{
		{
			name:   "default paging",
			target: "/notifications",
			setupMocks: func(m *MockNotificationLister) {
				m.EXPECT().List(gomock.Any(), userID, 1, services.DefaultNotificationsPerPage, false).
					Return(&services.NotificationPage{Items: []models.Notification{}, Page: 1, PerPage: 20}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:   "unread only",
			target: "/notifications?page=2&per_page=5&unread=true",
			setupMocks: func(m *MockNotificationLister) {
				m.EXPECT().List(gomock.Any(), userID, 2, 5, true).
					Return(&services.NotificationPage{Items: []models.Notification{{Title: "Payout received"}}, Total: 6, Page: 2, PerPage: 5}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "invalid page",
			target:             "/notifications?page=first",
			setupMocks:         func(m *MockNotificationLister) {},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLister := NewMockNotificationLister(ctrl)
			tt.setupMocks(mockLister)

			rr := serve(NewListNotificationsHandler(mockLister), http.MethodGet, "/notifications", tt.target, nil, userID)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
		})
	}
}

func TestMarkNotificationReadHandler(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()

	tests := []struct {
		name               string
		setupMocks         func(m *MockNotificationMarker)
		expectedStatusCode int
	}{
		{
			name: "marked",
			setupMocks: func(m *MockNotificationMarker) {
				m.EXPECT().MarkRead(gomock.Any(), userID, notificationID).Return(nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name: "someone else's notification",
			setupMocks: func(m *MockNotificationMarker) {
				m.EXPECT().MarkRead(gomock.Any(), userID, notificationID).Return(services.ErrNotRecipient)
			},
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name: "unknown notification",
			setupMocks: func(m *MockNotificationMarker) {
				m.EXPECT().MarkRead(gomock.Any(), userID, notificationID).Return(services.ErrNotificationNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockMarker := NewMockNotificationMarker(ctrl)
			tt.setupMocks(mockMarker)

			rr := serve(NewMarkNotificationReadHandler(mockMarker), http.MethodPost, "/notifications/{notificationID}/read", "/notifications/"+notificationID.String()+"/read", nil, userID)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
		})
	}
}
