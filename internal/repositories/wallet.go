package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// ErrInsufficientBalance is returned by Debit when the wallet holds less than the amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

const walletColumns = `wallet_id, user_id, circle_id, currency, balance, created_at, updated_at`

// WalletRepository handles wallet balances. Every balance change must be paired
// with a transactions row written in the same database transaction.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// EnsureUserWallet performs an UPSERT: creates the user's wallet if not exists and returns it.
func (r *WalletRepository) EnsureUserWallet(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (wallet_id, user_id, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, 0, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET updated_at = wallets.updated_at
		RETURNING ` + walletColumns
	return r.ensure(ctx, query, userID, currency)
}

// EnsureCircleWallet performs an UPSERT: creates the circle's pooled wallet if not exists and returns it.
func (r *WalletRepository) EnsureCircleWallet(ctx context.Context, circleID uuid.UUID, currency string) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (wallet_id, circle_id, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, 0, NOW(), NOW())
		ON CONFLICT (circle_id)
		DO UPDATE SET updated_at = wallets.updated_at
		RETURNING ` + walletColumns
	return r.ensure(ctx, query, circleID, currency)
}

func (r *WalletRepository) ensure(ctx context.Context, query string, ownerID uuid.UUID, currency string) (*models.Wallet, error) {
	var w models.Wallet
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &w, query, uuid.New(), ownerID, currency)
	logQuery(query, []any{ownerID, currency}, w.WalletID, err)

	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByID returns the wallet or nil.
func (r *WalletRepository) GetByID(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1`

	var w models.Wallet
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &w, query, walletID)
	logQuery(query, []any{walletID}, w.Balance, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit increases the balance and returns the new balance.
func (r *WalletRepository) Credit(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error) {
	const query = `
		UPDATE wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE wallet_id = $1
		RETURNING balance
	`

	var balance int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &balance, query, walletID, amount)
	logQuery(query, []any{walletID, amount}, balance, err)

	return balance, err
}

// Debit decreases the balance only when it covers amount, in a single statement,
// and returns the new balance. Returns ErrInsufficientBalance otherwise.
func (r *WalletRepository) Debit(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error) {
	const query = `
		UPDATE wallets
		SET balance = balance - $2, updated_at = NOW()
		WHERE wallet_id = $1 AND balance >= $2
		RETURNING balance
	`

	var balance int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &balance, query, walletID, amount)
	logQuery(query, []any{walletID, amount}, balance, err)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientBalance
	}
	return balance, err
}
