package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// MemberRepository handles circle membership rows
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Add inserts a member. An existing (circle, user) pair returns ErrDuplicate.
func (r *MemberRepository) Add(ctx context.Context, m *models.CircleMember) error {
	query := `
		INSERT INTO circle_members (circle_id, user_id, payout_order, role, join_date)
		VALUES (:circle_id, :user_id, :payout_order, :role, :join_date)
	`

	_, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, m)
	logQuery(query, []any{m.CircleID, m.UserID, m.PayoutOrder, m.Role}, nil, err)

	return mapWriteError(err)
}

// Get returns the membership of userID in circleID, or nil.
func (r *MemberRepository) Get(ctx context.Context, circleID, userID uuid.UUID) (*models.CircleMember, error) {
	const query = `
		SELECT circle_id, user_id, payout_order, role, join_date
		FROM circle_members
		WHERE circle_id = $1 AND user_id = $2
	`

	var m models.CircleMember
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &m, query, circleID, userID)
	logQuery(query, []any{circleID, userID}, m.PayoutOrder, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByCircle returns all members ordered by payout order.
func (r *MemberRepository) ListByCircle(ctx context.Context, circleID uuid.UUID) ([]models.CircleMember, error) {
	const query = `
		SELECT circle_id, user_id, payout_order, role, join_date
		FROM circle_members
		WHERE circle_id = $1
		ORDER BY payout_order
	`

	members := []models.CircleMember{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &members, query, circleID)
	logQuery(query, []any{circleID}, len(members), err)

	return members, err
}

// Remove deletes a membership.
func (r *MemberRepository) Remove(ctx context.Context, circleID, userID uuid.UUID) error {
	const query = `DELETE FROM circle_members WHERE circle_id = $1 AND user_id = $2`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, circleID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{circleID, userID}, rowsAffected, err)

	if err == nil && rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return err
}

// UpdatePayoutOrders sets payout_order for every user in orders. The order uniqueness
// constraint is deferred, so intermediate duplicates inside the transaction are allowed.
func (r *MemberRepository) UpdatePayoutOrders(ctx context.Context, circleID uuid.UUID, orders map[uuid.UUID]int) error {
	const query = `UPDATE circle_members SET payout_order = $3 WHERE circle_id = $1 AND user_id = $2`

	ex := executor(ctx, r.db)
	for userID, order := range orders {
		_, err := ex.ExecContext(ctx, query, circleID, userID, order)
		logQuery(query, []any{circleID, userID, order}, nil, err)
		if err != nil {
			return mapWriteError(err)
		}
	}
	return nil
}
