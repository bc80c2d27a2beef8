package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
)

// Schema holds the DDL statements, applied in order by Migrate.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS circles (
		circle_id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		amount BIGINT NOT NULL CHECK (amount > 0),
		currency CHAR(3) NOT NULL DEFAULT 'NGN',
		frequency VARCHAR(10) NOT NULL CHECK (frequency IN ('weekly', 'biweekly', 'monthly')),
		cycle_start_date TIMESTAMPTZ,
		status VARCHAR(10) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'completed')),
		invite_code VARCHAR(16) NOT NULL UNIQUE,
		target_members INT CHECK (target_members IS NULL OR target_members >= 2),
		payout_preference VARCHAR(10) NOT NULL DEFAULT 'fixed' CHECK (payout_preference IN ('fixed', 'random')),
		current_cycle INT NOT NULL DEFAULT 0 CHECK (current_cycle >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS circle_members (
		circle_id UUID NOT NULL REFERENCES circles(circle_id) ON DELETE CASCADE,
		user_id UUID NOT NULL,
		payout_order INT NOT NULL CHECK (payout_order > 0),
		role VARCHAR(10) NOT NULL CHECK (role IN ('host', 'member')),
		join_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (circle_id, user_id),
		CONSTRAINT circle_members_order_unique UNIQUE (circle_id, payout_order) DEFERRABLE INITIALLY DEFERRED
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS circle_members_one_host
		ON circle_members (circle_id) WHERE role = 'host';`,
	`CREATE TABLE IF NOT EXISTS contributions (
		contribution_id UUID PRIMARY KEY,
		circle_id UUID NOT NULL REFERENCES circles(circle_id),
		user_id UUID NOT NULL,
		cycle_number INT NOT NULL CHECK (cycle_number > 0),
		amount BIGINT NOT NULL CHECK (amount > 0),
		status VARCHAR(10) NOT NULL CHECK (status IN ('pending', 'paid', 'missed', 'overdue')),
		paid_at TIMESTAMPTZ
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS contributions_one_paid_per_cycle
		ON contributions (circle_id, user_id, cycle_number) WHERE status = 'paid';`,
	`CREATE TABLE IF NOT EXISTS wallets (
		wallet_id UUID PRIMARY KEY,
		user_id UUID UNIQUE,
		circle_id UUID UNIQUE REFERENCES circles(circle_id),
		currency CHAR(3) NOT NULL DEFAULT 'NGN',
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK ((user_id IS NULL) <> (circle_id IS NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id UUID PRIMARY KEY,
		wallet_id UUID NOT NULL REFERENCES wallets(wallet_id),
		amount BIGINT NOT NULL,
		type VARCHAR(16) NOT NULL CHECK (type IN ('deposit', 'withdrawal', 'contribution', 'payout')),
		status VARCHAR(10) NOT NULL CHECK (status IN ('pending', 'success', 'failed')),
		reference VARCHAR(128) NOT NULL UNIQUE,
		provider_reference VARCHAR(128),
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS transactions_wallet_created
		ON transactions (wallet_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		notification_id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		title VARCHAR(200) NOT NULL,
		body TEXT NOT NULL,
		type VARCHAR(20) NOT NULL,
		priority VARCHAR(10) NOT NULL DEFAULT 'normal',
		action_url TEXT,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS notifications_user_created
		ON notifications (user_id, created_at DESC);`,
}

// Migrate applies Schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Log.Errorw("migration failed", "statement", stmt, "error", err)
			return err
		}
	}
	logger.Log.Infow("migrations applied", "statements", len(Schema))
	return nil
}
