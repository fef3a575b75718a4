package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

// Each user keeps at most this many notifications; the oldest is evicted
// when a new one arrives at the cap.
const maxNotificationsPerUser = 20

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, n.UserID).Scan(&count); err != nil {
		return err
	}
	if count >= maxNotificationsPerUser {
		evict := `DELETE FROM notifications WHERE id =
		            (SELECT id FROM notifications WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1)`
		if _, err := r.db.ExecContext(ctx, evict, n.UserID); err != nil {
			return err
		}
	}

	query := `INSERT INTO notifications (user_id, kind, message, payload, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, n.UserID, n.Kind, n.Message, payload, n.IsRead, n.CreatedAt).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, kind, message, payload, is_read, created_at
	          FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &payload, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &n.Payload); err != nil {
				return nil, 0, fmt.Errorf("unmarshal notification payload: %w", err)
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
