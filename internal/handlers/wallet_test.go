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

func TestGetWalletHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	mockReader := NewMockBalanceReader(ctrl)
	mockReader.EXPECT().Balance(gomock.Any(), userID).Return(&models.Wallet{
		WalletID: uuid.New(),
		UserID:   &userID,
		Currency: models.DefaultCurrency,
		Balance:  2500,
	}, nil)

	rr := serve(NewGetWalletHandler(mockReader), http.MethodGet, "/wallet", "/wallet", nil, userID)

	assert.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]any)
	assert.Equal(t, float64(2500), data["balance"])
	assert.Equal(t, "NGN", data["currency"])
}

func TestListTransactionsHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name               string
		target             string
		setupMocks         func(m *MockTransactionLister)
		expectedStatusCode int
	}{
		{
			name:   "defaults",
			target: "/wallet/transactions",
			setupMocks: func(m *MockTransactionLister) {
				m.EXPECT().Transactions(gomock.Any(), userID, 0, 0).Return(nil, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:   "explicit paging",
			target: "/wallet/transactions?limit=10&offset=20",
			setupMocks: func(m *MockTransactionLister) {
				m.EXPECT().Transactions(gomock.Any(), userID, 10, 20).Return([]models.Transaction{{Amount: -1000}}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "non numeric limit",
			target:             "/wallet/transactions?limit=ten",
			setupMocks:         func(m *MockTransactionLister) {},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLister := NewMockTransactionLister(ctrl)
			tt.setupMocks(mockLister)

			rr := serve(NewListTransactionsHandler(mockLister), http.MethodGet, "/wallet/transactions", tt.target, nil, userID)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
		})
	}
}

func TestDepositHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name               string
		userID             uuid.UUID
		requestBody        any
		setupMocks         func(m *MockDepositInitiator)
		expectedStatusCode int
		expectedKey        string
	}{
		{
			name:        "deposit initiated",
			userID:      userID,
			requestBody: DepositRequest{Amount: 1000000},
			setupMocks: func(m *MockDepositInitiator) {
				m.EXPECT().InitiateDeposit(gomock.Any(), userID, int64(1000000)).Return(&models.Transaction{
					Amount:    1000000,
					Status:    models.TransactionStatusPending,
					Reference: "txn_8f14e45fceea167a5a36dedd4bea2543",
				}, nil)
			},
			expectedStatusCode: http.StatusCreated,
			expectedKey:        "data",
		},
		{
			name:               "invalid request body",
			userID:             userID,
			requestBody:        "invalid-json",
			setupMocks:         func(m *MockDepositInitiator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:               "negative amount",
			userID:             userID,
			requestBody:        DepositRequest{Amount: -1},
			setupMocks:         func(m *MockDepositInitiator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:               "unauthorized",
			userID:             uuid.Nil,
			requestBody:        DepositRequest{Amount: 100},
			setupMocks:         func(m *MockDepositInitiator) {},
			expectedStatusCode: http.StatusUnauthorized,
			expectedKey:        "error",
		},
		{
			name:        "service rejects amount",
			userID:      userID,
			requestBody: DepositRequest{Amount: 100},
			setupMocks: func(m *MockDepositInitiator) {
				m.EXPECT().InitiateDeposit(gomock.Any(), userID, int64(100)).Return(nil, services.ErrInvalidAmount)
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockInitiator := NewMockDepositInitiator(ctrl)
			tt.setupMocks(mockInitiator)

			rr := serve(NewDepositHandler(mockInitiator), http.MethodPost, "/wallet/deposit", "/wallet/deposit", tt.requestBody, tt.userID)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
			resp := decodeBody(t, rr)
			assert.Contains(t, resp, tt.expectedKey)
			if tt.expectedStatusCode == http.StatusCreated {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "txn_8f14e45fceea167a5a36dedd4bea2543", data["reference"])
				assert.Equal(t, "pending", data["status"])
			}
		})
	}
}
