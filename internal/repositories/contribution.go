package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// ContributionRepository handles contribution rows
type ContributionRepository struct {
	db *sqlx.DB
}

// NewContributionRepository creates a new ContributionRepository.
func NewContributionRepository(db *sqlx.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// Create inserts a contribution. A second paid contribution for the same
// (circle, user, cycle) violates contributions_one_paid_per_cycle and returns ErrDuplicate.
func (r *ContributionRepository) Create(ctx context.Context, c *models.Contribution) error {
	query := `
		INSERT INTO contributions (contribution_id, circle_id, user_id, cycle_number, amount, status, paid_at)
		VALUES (:contribution_id, :circle_id, :user_id, :cycle_number, :amount, :status, :paid_at)
	`

	_, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, c)
	logQuery(query, []any{c.CircleID, c.UserID, c.CycleNumber, c.Status}, nil, err)

	return mapWriteError(err)
}

// HasPaid reports whether userID already paid for cycle.
func (r *ContributionRepository) HasPaid(ctx context.Context, circleID, userID uuid.UUID, cycle int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM contributions
			WHERE circle_id = $1 AND user_id = $2 AND cycle_number = $3 AND status = 'paid'
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &exists, query, circleID, userID, cycle)
	logQuery(query, []any{circleID, userID, cycle}, exists, err)

	return exists, err
}

// CountPaid returns the number of paid contributions for cycle.
func (r *ContributionRepository) CountPaid(ctx context.Context, circleID uuid.UUID, cycle int) (int, error) {
	const query = `
		SELECT COUNT(*) FROM contributions
		WHERE circle_id = $1 AND cycle_number = $2 AND status = 'paid'
	`

	var count int
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query, circleID, cycle)
	logQuery(query, []any{circleID, cycle}, count, err)

	return count, err
}

// ListByCycle returns all contributions recorded for cycle.
func (r *ContributionRepository) ListByCycle(ctx context.Context, circleID uuid.UUID, cycle int) ([]models.Contribution, error) {
	const query = `
		SELECT contribution_id, circle_id, user_id, cycle_number, amount, status, paid_at
		FROM contributions
		WHERE circle_id = $1 AND cycle_number = $2
		ORDER BY paid_at NULLS LAST
	`

	contributions := []models.Contribution{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &contributions, query, circleID, cycle)
	logQuery(query, []any{circleID, cycle}, len(contributions), err)

	return contributions, err
}
