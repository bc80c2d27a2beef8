package services

//go:generate mockgen -source=deps.go -destination=deps_mock.go -package=services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers events. Notify must not block and must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, event models.Event)
}

// CircleLocker serializes ledger operations on one circle.
type CircleLocker interface {
	Lock(ctx context.Context, circleID uuid.UUID) (unlock func(), err error)
}

// CircleStore persists circles.
type CircleStore interface {
	Create(ctx context.Context, c *models.Circle) error
	GetByID(ctx context.Context, circleID uuid.UUID) (*models.Circle, error)
	GetByIDForUpdate(ctx context.Context, circleID uuid.UUID) (*models.Circle, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Circle, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Circle, error)
	Update(ctx context.Context, c *models.Circle) error
}

// MemberStore persists circle memberships.
type MemberStore interface {
	Add(ctx context.Context, member *models.CircleMember) error
	Get(ctx context.Context, circleID, userID uuid.UUID) (*models.CircleMember, error)
	ListByCircle(ctx context.Context, circleID uuid.UUID) ([]models.CircleMember, error)
	Remove(ctx context.Context, circleID, userID uuid.UUID) error
	UpdatePayoutOrders(ctx context.Context, circleID uuid.UUID, orders map[uuid.UUID]int) error
}

// ContributionStore persists contributions.
type ContributionStore interface {
	Create(ctx context.Context, c *models.Contribution) error
	HasPaid(ctx context.Context, circleID, userID uuid.UUID, cycle int) (bool, error)
	CountPaid(ctx context.Context, circleID uuid.UUID, cycle int) (int, error)
	ListByCycle(ctx context.Context, circleID uuid.UUID, cycle int) ([]models.Contribution, error)
}

// WalletStore holds balances. Only the ledger paths mutate them.
type WalletStore interface {
	EnsureUserWallet(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, error)
	EnsureCircleWallet(ctx context.Context, circleID uuid.UUID, currency string) (*models.Wallet, error)
	GetByID(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error)
	Credit(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error)
	Debit(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error)
}

// TransactionStore is the append-only ledger.
type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	GetByReferenceForUpdate(ctx context.Context, reference string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, transactionID uuid.UUID, status models.TransactionStatus, providerReference *string) error
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

// NotificationStore reads and updates the in-app inbox.
type NotificationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

func newEvent(t models.EventType, recipient uuid.UUID, circleID *uuid.UUID, now time.Time, payload map[string]any) models.Event {
	return models.Event{
		Type:        t,
		RecipientID: recipient,
		CircleID:    circleID,
		Payload:     payload,
		OccurredAt:  now,
	}
}
