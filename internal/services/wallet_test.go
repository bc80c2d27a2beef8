package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletService_Balance(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	userID := uuid.New()

	w, err := f.wallet.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
	assert.Equal(t, models.DefaultCurrency, w.Currency)

	again, err := f.wallet.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, w.WalletID, again.WalletID)
}

func TestWalletService_DepositFlow(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.wallet.InitiateDeposit(ctx, userID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	txn, err := f.wallet.InitiateDeposit(ctx, userID, 20000)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, models.TransactionTypeDeposit, txn.Type)
	assert.True(t, strings.HasPrefix(txn.Reference, "txn_"))
	assert.Len(t, txn.Reference, 36)
	assert.Equal(t, int64(0), f.store.userBalance(userID))

	_, err = f.wallet.ConfirmDeposit(ctx, txn.Reference, 19999, "prov-1")
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Equal(t, int64(0), f.store.userBalance(userID))
	stored, _ := memTransactions{f.store}.GetByReference(ctx, txn.Reference)
	assert.Equal(t, models.TransactionStatusPending, stored.Status)

	res, err := f.wallet.ConfirmDeposit(ctx, txn.Reference, 20000, "prov-1")
	require.NoError(t, err)
	assert.False(t, res.AlreadyProcessed)
	assert.Equal(t, models.TransactionStatusSuccess, res.Transaction.Status)
	require.NotNil(t, res.Transaction.ProviderReference)
	assert.Equal(t, "prov-1", *res.Transaction.ProviderReference)
	assert.Equal(t, int64(20000), f.store.userBalance(userID))

	ev := f.notifier.last(models.EventDepositConfirmed)
	require.NotNil(t, ev)
	assert.Equal(t, userID, ev.RecipientID)

	res, err = f.wallet.ConfirmDeposit(ctx, txn.Reference, 20000, "prov-1")
	require.NoError(t, err)
	assert.True(t, res.AlreadyProcessed)
	assert.Equal(t, int64(20000), f.store.userBalance(userID))
	assert.Equal(t, 1, f.notifier.count(models.EventDepositConfirmed))

	_, err = f.wallet.ConfirmDeposit(ctx, "txn_missing", 20000, "prov-1")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWalletService_ConfirmDeposit_NotADeposit(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	c, users := f.activeCircle(t, 1000, 2)
	f.fund(t, users[0], 1000)

	res, err := f.ledger.Contribute(ctx, users[0], c.ID)
	require.NoError(t, err)

	_, err = f.wallet.ConfirmDeposit(ctx, "contrib-"+res.Contribution.ID.String(), -1000, "prov-1")
	assert.ErrorIs(t, err, ErrNotPendingDeposit)
	assert.Equal(t, int64(0), f.store.userBalance(users[0]))
}

func TestWalletService_Transactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	wallet := &models.Wallet{WalletID: uuid.New(), UserID: &userID, Currency: models.DefaultCurrency}

	wallets := NewMockWalletStore(ctrl)
	txns := NewMockTransactionStore(ctrl)
	wallets.EXPECT().EnsureUserWallet(ctx, userID, models.DefaultCurrency).Return(wallet, nil).AnyTimes()

	svc := NewWalletService(nil, wallets, txns, nil)

	tests := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantOffset    int
	}{
		{"defaults", 0, 0, DefaultTransactionsLimit, 0},
		{"clamped", 1000, 10, MaxTransactionsLimit, 10},
		{"negative offset", 5, -3, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns.EXPECT().ListByWallet(ctx, wallet.WalletID, tt.wantLimit, tt.wantOffset).Return([]models.Transaction{{Reference: "txn_1"}}, nil)

			got, err := svc.Transactions(ctx, userID, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}

	boom := errors.New("db down")
	txns.EXPECT().ListByWallet(ctx, wallet.WalletID, DefaultTransactionsLimit, 0).Return(nil, boom)
	_, err := svc.Transactions(ctx, userID, 0, 0)
	assert.ErrorIs(t, err, boom)
}
