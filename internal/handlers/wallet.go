package handlers

//go:generate mockgen -source=wallet.go -destination=wallet_mock.go -package=handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// BalanceReader returns the caller's wallet.
type BalanceReader interface {
	Balance(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
}

// TransactionLister pages through the caller's ledger entries.
type TransactionLister interface {
	Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

// DepositInitiator records a pending deposit.
type DepositInitiator interface {
	InitiateDeposit(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error)
}

// DepositRequest represents the JSON body for starting a deposit
// swagger:model DepositRequest
type DepositRequest struct {
	// Amount to deposit in minor units
	// required: true
	// default: 1000000
	Amount int64 `json:"amount" validate:"gt=0"`
}

// DepositResponse tells the client which reference the payment provider must confirm
// swagger:model DepositResponse
type DepositResponse struct {
	// Reference to pass to the payment provider
	// default: txn_8f14e45fceea167a5a36dedd4bea2543
	Reference string `json:"reference"`

	// Amount in minor units
	// default: 1000000
	Amount int64 `json:"amount"`

	// Always pending until the provider confirms
	// default: pending
	Status models.TransactionStatus `json:"status"`
}

// NewGetWalletHandler returns an HTTP handler for the caller's wallet balance.
// @Summary Get wallet
// @Description Returns the caller's wallet. A wallet is created on first access.
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.Response{data=models.Wallet}
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /wallet [get]
// @Security BearerAuth
func NewGetWalletHandler(svc BalanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		wallet, err := svc.Balance(r.Context(), userID)
		if err != nil {
			writeServiceError(w, "get wallet", err)
			return
		}

		writeJSON(w, http.StatusOK, "Wallet retrieved", wallet)
	}
}

// NewListTransactionsHandler returns an HTTP handler for the caller's transactions, newest first.
// @Summary List transactions
// @Tags wallet
// @Produce json
// @Param limit query int false "Page size, max 100" default(50)
// @Param offset query int false "Entries to skip" default(0)
// @Success 200 {object} handlers.Response{data=[]models.Transaction}
// @Failure 400 {object} handlers.ErrorResponse "Invalid paging"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /wallet/transactions [get]
// @Security BearerAuth
func NewListTransactionsHandler(svc TransactionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		limit, ok := queryInt(w, r, "limit", 0)
		if !ok {
			return
		}
		offset, ok := queryInt(w, r, "offset", 0)
		if !ok {
			return
		}

		txns, err := svc.Transactions(r.Context(), userID, limit, offset)
		if err != nil {
			writeServiceError(w, "list transactions", err)
			return
		}
		if txns == nil {
			txns = []models.Transaction{}
		}

		writeJSON(w, http.StatusOK, "Transactions retrieved", txns)
	}
}

// NewDepositHandler returns an HTTP handler that starts a wallet deposit.
// @Summary Deposit funds
// @Description Records a pending deposit. The wallet is credited when the payment webhook confirms it.
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body handlers.DepositRequest true "Deposit Request"
// @Success 201 {object} handlers.Response{data=handlers.DepositResponse}
// @Failure 400 {object} handlers.ErrorResponse "Invalid amount"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /wallet/deposit [post]
// @Security BearerAuth
func NewDepositHandler(svc DepositInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req DepositRequest
		if !decode(w, r, &req) {
			return
		}

		txn, err := svc.InitiateDeposit(r.Context(), userID, req.Amount)
		if err != nil {
			writeServiceError(w, "initiate deposit", err)
			return
		}

		writeJSON(w, http.StatusCreated, "Deposit initiated", DepositResponse{
			Reference: txn.Reference,
			Amount:    txn.Amount,
			Status:    txn.Status,
		})
	}
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return v, true
}
