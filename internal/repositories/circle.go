package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

const circleColumns = `circle_id, name, amount, currency, frequency, cycle_start_date, status, invite_code,
	target_members, payout_preference, current_cycle, created_at, updated_at`

// logQuery logs query in a single line with its args, result and error.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

// CircleRepository handles circle reads and writes
type CircleRepository struct {
	db *sqlx.DB
}

// NewCircleRepository creates a new CircleRepository.
func NewCircleRepository(db *sqlx.DB) *CircleRepository {
	return &CircleRepository{db: db}
}

// Create inserts a new circle. A duplicate invite code returns ErrDuplicate.
func (r *CircleRepository) Create(ctx context.Context, c *models.Circle) error {
	query := `
		INSERT INTO circles (` + circleColumns + `)
		VALUES (:circle_id, :name, :amount, :currency, :frequency, :cycle_start_date, :status, :invite_code,
			:target_members, :payout_preference, :current_cycle, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, c)
	logQuery(query, []any{c.ID, c.Name, c.Amount, c.InviteCode}, nil, err)

	return mapWriteError(err)
}

// GetByID returns the circle or nil when it does not exist.
func (r *CircleRepository) GetByID(ctx context.Context, circleID uuid.UUID) (*models.Circle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles WHERE circle_id = $1`
	return r.getOne(ctx, query, circleID)
}

// GetByIDForUpdate returns the circle and locks its row until the surrounding transaction ends.
func (r *CircleRepository) GetByIDForUpdate(ctx context.Context, circleID uuid.UUID) (*models.Circle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles WHERE circle_id = $1 FOR UPDATE`
	return r.getOne(ctx, query, circleID)
}

// GetByInviteCode returns the circle with the given invite code or nil.
func (r *CircleRepository) GetByInviteCode(ctx context.Context, code string) (*models.Circle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles WHERE invite_code = $1`
	return r.getOne(ctx, query, code)
}

func (r *CircleRepository) getOne(ctx context.Context, query string, arg any) (*models.Circle, error) {
	var c models.Circle
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &c, query, arg)
	logQuery(query, []any{arg}, c.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByMember returns every circle userID belongs to, newest first.
func (r *CircleRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Circle, error) {
	query := `
		SELECT c.circle_id, c.name, c.amount, c.currency, c.frequency, c.cycle_start_date, c.status,
			c.invite_code, c.target_members, c.payout_preference, c.current_cycle, c.created_at, c.updated_at
		FROM circles c
		JOIN circle_members m ON m.circle_id = c.circle_id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC
	`

	circles := []models.Circle{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &circles, query, userID)
	logQuery(query, []any{userID}, len(circles), err)

	return circles, err
}

// Update persists the mutable fields of c.
func (r *CircleRepository) Update(ctx context.Context, c *models.Circle) error {
	query := `
		UPDATE circles
		SET name = :name, amount = :amount, frequency = :frequency, cycle_start_date = :cycle_start_date,
			status = :status, target_members = :target_members, payout_preference = :payout_preference,
			current_cycle = :current_cycle, updated_at = :updated_at
		WHERE circle_id = :circle_id
	`

	res, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, c)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{c.ID, c.Status, c.CurrentCycle}, rowsAffected, err)

	if err == nil && rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return err
}
