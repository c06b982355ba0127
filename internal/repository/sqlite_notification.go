package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/db"
	"github.com/alexanderramin/incidentboard/internal/domain"
)

// SQLiteNotificationRepo implements NotificationRepo on the notifications table.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = nowUTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (usuario_id, incidencia_id, mensaje, leida, created_at) VALUES (?, ?, ?, ?, ?)`,
		n.UserID, n.IncidentID, n.Message, boolToInt(n.Read), formatTime(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading notification id: %w", err)
	}
	n.ID = id
	return nil
}

// ListByUser returns the user's notifications unread first, newest first
// within each group.
func (r *SQLiteNotificationRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, usuario_id, incidencia_id, mensaje, leida, created_at
		FROM notifications WHERE usuario_id = ?
		ORDER BY leida ASC, created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *SQLiteNotificationRepo) MarkRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET leida = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanNotifications(rows *sql.Rows) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			read      int
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.IncidentID, &n.Message, &read, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Read = intToBool(read)
		t, err := parseTime("created_at", createdAt)
		if err != nil {
			return nil, err
		}
		n.CreatedAt = t
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}
