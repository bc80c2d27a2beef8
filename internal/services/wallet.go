package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// Transaction history paging limits
const (
	DefaultTransactionsLimit = 50
	MaxTransactionsLimit     = 100
)

// DepositConfirmation is the outcome of a payment webhook.
type DepositConfirmation struct {
	Transaction      *models.Transaction
	AlreadyProcessed bool
}

// WalletService exposes user wallets, their history and deposit funding.
type WalletService struct {
	tx           Transactor
	wallets      WalletStore
	transactions TransactionStore
	notifier     Notifier

	now func() time.Time
}

// NewWalletService creates a new WalletService.
func NewWalletService(tx Transactor, wallets WalletStore, transactions TransactionStore, notifier Notifier) *WalletService {
	return &WalletService{
		tx:           tx,
		wallets:      wallets,
		transactions: transactions,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Balance returns the user's wallet, creating an empty one on first access.
func (s *WalletService) Balance(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	w, err := s.wallets.EnsureUserWallet(ctx, userID, models.DefaultCurrency)
	if err != nil {
		logger.Log.Errorw("failed to get wallet", "userID", userID, "error", err)
		return nil, err
	}
	return w, nil
}

// Transactions returns the user's ledger entries, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionsLimit
	}
	if limit > MaxTransactionsLimit {
		limit = MaxTransactionsLimit
	}
	if offset < 0 {
		offset = 0
	}

	w, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.transactions.ListByWallet(ctx, w.WalletID, limit, offset)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", userID, "error", err)
		return nil, err
	}
	return txns, nil
}

// InitiateDeposit records a pending deposit. The wallet is credited once the payment
// provider confirms it through ConfirmDeposit.
func (s *WalletService) InitiateDeposit(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	txn := &models.Transaction{
		TransactionID: uuid.New(),
		WalletID:      w.WalletID,
		Amount:        amount,
		Type:          models.TransactionTypeDeposit,
		Status:        models.TransactionStatusPending,
		Reference:     "txn_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Description:   "Wallet deposit",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		logger.Log.Errorw("failed to create deposit", "userID", userID, "amount", amount, "error", err)
		return nil, err
	}
	return txn, nil
}

// ConfirmDeposit settles a pending deposit reported by the payment provider.
// Repeated confirmations of a settled deposit are no-ops.
func (s *WalletService) ConfirmDeposit(ctx context.Context, reference string, amount int64, providerID string) (*DepositConfirmation, error) {
	var (
		result DepositConfirmation
		wallet *models.Wallet
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		txn, err := s.transactions.GetByReferenceForUpdate(ctx, reference)
		if err != nil {
			return err
		}
		if txn == nil {
			return ErrTransactionNotFound
		}
		result.Transaction = txn

		if txn.Type == models.TransactionTypeDeposit && txn.Status == models.TransactionStatusSuccess {
			result.AlreadyProcessed = true
			return nil
		}
		if txn.Type != models.TransactionTypeDeposit || txn.Status != models.TransactionStatusPending {
			return ErrNotPendingDeposit
		}
		if amount != txn.Amount {
			return ErrAmountMismatch
		}

		var providerRef *string
		if providerID != "" {
			providerRef = &providerID
		}
		if err := s.transactions.UpdateStatus(ctx, txn.TransactionID, models.TransactionStatusSuccess, providerRef); err != nil {
			return err
		}
		if _, err := s.wallets.Credit(ctx, txn.WalletID, txn.Amount); err != nil {
			return err
		}
		wallet, err = s.wallets.GetByID(ctx, txn.WalletID)
		if err != nil {
			return err
		}

		txn.Status = models.TransactionStatusSuccess
		txn.ProviderReference = providerRef
		txn.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to confirm deposit", "reference", reference, "amount", amount, "error", err)
		return nil, err
	}
	if result.AlreadyProcessed {
		logger.Log.Infow("deposit already confirmed", "reference", reference)
		return &result, nil
	}

	logger.Log.Infow("deposit confirmed", "reference", reference, "amount", amount, "provider", providerID)
	if wallet != nil && wallet.UserID != nil {
		s.notifier.Notify(ctx, newEvent(models.EventDepositConfirmed, *wallet.UserID, nil, result.Transaction.UpdatedAt, map[string]any{
			"amount":    amount,
			"reference": reference,
			"balance":   wallet.Balance,
		}))
	}
	return &result, nil
}
