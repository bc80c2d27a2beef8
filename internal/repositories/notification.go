package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// NotificationRepository handles in-app notifications
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, title, body, type, priority, action_url, is_read, created_at)
		VALUES (:notification_id, :user_id, :title, :body, :type, :priority, :action_url, :is_read, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, n)
	logQuery(query, []any{n.UserID, n.Type, n.Title}, nil, err)

	return err
}

// GetByID returns the notification or nil.
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	const query = `
		SELECT notification_id, user_id, title, body, type, priority, action_url, is_read, created_at
		FROM notifications
		WHERE notification_id = $1
	`

	var n models.Notification
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &n, query, id)
	logQuery(query, []any{id}, n.UserID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUser returns a page of notifications and the total count matching the filter.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR is_read = FALSE)
	`
	const query = `
		SELECT notification_id, user_id, title, body, type, priority, action_url, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	ex := executor(ctx, r.db)

	var total int
	err := sqlx.GetContext(ctx, ex, &total, countQuery, userID, unreadOnly)
	logQuery(countQuery, []any{userID, unreadOnly}, total, err)
	if err != nil {
		return nil, 0, err
	}

	items := []models.Notification{}
	err = sqlx.SelectContext(ctx, ex, &items, query, userID, unreadOnly, limit, offset)
	logQuery(query, []any{userID, unreadOnly, limit, offset}, len(items), err)

	return items, total, err
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	logQuery(query, []any{id}, nil, err)

	return err
}
