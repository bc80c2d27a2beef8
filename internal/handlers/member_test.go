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

func TestListMembersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	circleID := uuid.New()
	mockLister := NewMockMemberLister(ctrl)
	mockLister.EXPECT().Members(gomock.Any(), userID, circleID).Return([]models.CircleMember{
		{UserID: userID, PayoutOrder: 1, Role: models.RoleHost},
		{UserID: uuid.New(), PayoutOrder: 2, Role: models.RoleMember},
	}, nil)

	rr := serve(NewListMembersHandler(mockLister), http.MethodGet, "/circles/{circleID}/members", "/circles/"+circleID.String()+"/members", nil, userID)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody(t, rr)["data"], 2)
}

func TestReorderMembersHandler(t *testing.T) {
	userID := uuid.New()
	circleID := uuid.New()
	other := uuid.New()

	tests := []struct {
		name               string
		requestBody        any
		setupMocks         func(m *MockMemberReorderer)
		expectedStatusCode int
	}{
		{
			name:        "reordered",
			requestBody: ReorderRequest{UserIDs: []uuid.UUID{other, userID}},
			setupMocks: func(m *MockMemberReorderer) {
				m.EXPECT().Reorder(gomock.Any(), userID, circleID, []uuid.UUID{other, userID}).Return([]models.CircleMember{
					{UserID: other, PayoutOrder: 1},
					{UserID: userID, PayoutOrder: 2},
				}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "empty order",
			requestBody:        ReorderRequest{},
			setupMocks:         func(m *MockMemberReorderer) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "malformed user id",
			requestBody:        `{"user_ids": ["nope"]}`,
			setupMocks:         func(m *MockMemberReorderer) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:        "order misses a member",
			requestBody: ReorderRequest{UserIDs: []uuid.UUID{userID}},
			setupMocks: func(m *MockMemberReorderer) {
				m.EXPECT().Reorder(gomock.Any(), userID, circleID, gomock.Any()).Return(nil, services.ErrReorderMismatch)
			},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockReorderer := NewMockMemberReorderer(ctrl)
			tt.setupMocks(mockReorderer)

			rr := serve(NewReorderMembersHandler(mockReorderer), http.MethodPut, "/circles/{circleID}/members/order", "/circles/"+circleID.String()+"/members/order", tt.requestBody, userID)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
		})
	}
}

func TestRemoveMemberHandler(t *testing.T) {
	hostID := uuid.New()
	circleID := uuid.New()
	memberID := uuid.New()

	tests := []struct {
		name               string
		memberID           string
		setupMocks         func(m *MockMemberRemover)
		expectedStatusCode int
	}{
		{
			name:     "removed",
			memberID: memberID.String(),
			setupMocks: func(m *MockMemberRemover) {
				m.EXPECT().RemoveMember(gomock.Any(), hostID, circleID, memberID).Return(nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "malformed member id",
			memberID:           "123",
			setupMocks:         func(m *MockMemberRemover) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:     "host removing themselves",
			memberID: memberID.String(),
			setupMocks: func(m *MockMemberRemover) {
				m.EXPECT().RemoveMember(gomock.Any(), hostID, circleID, memberID).Return(services.ErrHostCannotLeave)
			},
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name:     "unknown member",
			memberID: memberID.String(),
			setupMocks: func(m *MockMemberRemover) {
				m.EXPECT().RemoveMember(gomock.Any(), hostID, circleID, memberID).Return(services.ErrMemberNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRemover := NewMockMemberRemover(ctrl)
			tt.setupMocks(mockRemover)

			rr := serve(NewRemoveMemberHandler(mockRemover), http.MethodDelete, "/circles/{circleID}/members/{userID}", "/circles/"+circleID.String()+"/members/"+tt.memberID, nil, hostID)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
		})
	}
}
