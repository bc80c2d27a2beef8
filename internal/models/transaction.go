package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a ledger entry.
type TransactionType string

// Ledger entry types
const (
	TransactionTypeDeposit      TransactionType = "deposit"
	TransactionTypeWithdrawal   TransactionType = "withdrawal"
	TransactionTypeContribution TransactionType = "contribution"
	TransactionTypePayout       TransactionType = "payout"
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

// Ledger entry states
const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction represents an append-only ledger row. Amount is signed:
// negative for debits, positive for credits.
type Transaction struct {
	TransactionID     uuid.UUID         `json:"transaction_id" db:"transaction_id"`         // Unique identifier
	WalletID          uuid.UUID         `json:"wallet_id" db:"wallet_id"`                   // Wallet the entry applies to
	Amount            int64             `json:"amount" db:"amount"`                         // Signed amount in minor units
	Type              TransactionType   `json:"type" db:"type"`                             // deposit, withdrawal, contribution, payout
	Status            TransactionStatus `json:"status" db:"status"`                         // pending, success, failed
	Reference         string            `json:"reference" db:"reference"`                   // Globally unique idempotency key
	ProviderReference *string           `json:"provider_reference" db:"provider_reference"` // Payment provider id, deposits only
	Description       string            `json:"description" db:"description"`               // Human readable description
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}
