package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

const transactionColumns = `transaction_id, wallet_id, amount, type, status, reference, provider_reference,
	description, created_at, updated_at`

// TransactionRepository handles the append-only ledger
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger row. A reused reference returns ErrDuplicate.
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (:transaction_id, :wallet_id, :amount, :type, :status, :reference, :provider_reference,
			:description, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, t)
	logQuery(query, []any{t.WalletID, t.Amount, t.Type, t.Status, t.Reference}, nil, err)

	return mapWriteError(err)
}

// GetByReference returns the ledger row with reference or nil.
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	return r.getByReference(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`, reference)
}

// GetByReferenceForUpdate is GetByReference that also locks the row.
func (r *TransactionRepository) GetByReferenceForUpdate(ctx context.Context, reference string) (*models.Transaction, error) {
	return r.getByReference(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE reference = $1 FOR UPDATE`, reference)
}

func (r *TransactionRepository) getByReference(ctx context.Context, query, reference string) (*models.Transaction, error) {
	var t models.Transaction
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &t, query, reference)
	logQuery(query, []any{reference}, t.Status, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateStatus moves a pending row to status, recording the provider reference when given.
// Rows that are no longer pending are left untouched and sql.ErrNoRows is returned.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, transactionID uuid.UUID, status models.TransactionStatus, providerReference *string) error {
	const query = `
		UPDATE transactions
		SET status = $2, provider_reference = COALESCE($3, provider_reference), updated_at = NOW()
		WHERE transaction_id = $1 AND status = 'pending'
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, transactionID, status, providerReference)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{transactionID, status, providerReference}, rowsAffected, err)

	if err == nil && rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ListByWallet returns ledger rows of a wallet, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	txns := []models.Transaction{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &txns, query, walletID, limit, offset)
	logQuery(query, []any{walletID, limit, offset}, len(txns), err)

	return txns, err
}
