package postgres

import (
	"context"
	"fmt"

	"github.com/campus-hub/grading-system/internal/domain/notification"
)

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

var _ notification.Repository = (*NotificationRepository)(nil)

// Save implements notification.Repository as an upsert on id.
func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	_, err := r.conn.Exec(ctx, `
		INSERT INTO notifications (
			id, event, target, url, grade_id, student_id, status, blocked,
			error, http_status, created_at, completed_at
		) VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, 0), $7, $8, NULLIF($9, ''), NULLIF($10, 0), $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			blocked = EXCLUDED.blocked,
			error = EXCLUDED.error,
			http_status = EXCLUDED.http_status,
			completed_at = EXCLUDED.completed_at`,
		string(n.ID), string(n.Event), string(n.Target), n.URL, n.GradeID, n.StudentID,
		string(n.Status), n.Blocked, n.Error, n.HTTPStatus, n.CreatedAt, n.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// Recent implements notification.Repository.
func (r *NotificationRepository) Recent(ctx context.Context, limit int) ([]notification.Notification, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	rows, err := r.conn.Query(ctx, `
		SELECT id, event, target, url, COALESCE(grade_id, 0), COALESCE(student_id, 0), status,
		       blocked, COALESCE(error, ''), COALESCE(http_status, 0), created_at, completed_at
		FROM notifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var (
			n                     notification.Notification
			id, event, target, st string
		)
		if err := rows.Scan(&id, &event, &target, &n.URL, &n.GradeID, &n.StudentID, &st,
			&n.Blocked, &n.Error, &n.HTTPStatus, &n.CreatedAt, &n.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.ID = notification.NotificationID(id)
		n.Event = notification.Event(event)
		n.Target = notification.Target(target)
		n.Status = notification.Status(st)
		out = append(out, n)
	}
	return out, rows.Err()
}
