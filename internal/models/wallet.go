package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is the only currency circles settle in.
const DefaultCurrency = "NGN"

// Wallet represents a wallet row in the database. Exactly one of UserID and CircleID is set.
type Wallet struct {
	WalletID  uuid.UUID  `json:"wallet_id" db:"wallet_id"`   // Unique wallet identifier
	UserID    *uuid.UUID `json:"user_id" db:"user_id"`       // Owning user, nil for circle wallets
	CircleID  *uuid.UUID `json:"circle_id" db:"circle_id"`   // Owning circle, nil for user wallets
	Currency  string     `json:"currency" db:"currency"`     // Currency code
	Balance   int64      `json:"balance" db:"balance"`       // Balance in minor units, never negative
	CreatedAt time.Time  `json:"created_at" db:"created_at"` // Timestamp when the wallet was created
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"` // Timestamp of the last wallet update
}
