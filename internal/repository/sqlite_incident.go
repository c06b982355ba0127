package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/incidentboard/internal/db"
	"github.com/alexanderramin/incidentboard/internal/domain"
)

const incidentColumns = `id, estado, prioridad, responsable_id, area, modulo, descripcion, url_foto, created_at, updated_at`

// SQLiteIncidentRepo implements IncidentRepo on the incidents table.
type SQLiteIncidentRepo struct {
	db db.DBTX
}

func NewSQLiteIncidentRepo(conn db.DBTX) *SQLiteIncidentRepo {
	return &SQLiteIncidentRepo{db: conn}
}

// Create inserts inc and sets its ID. Zero timestamps are filled with now,
// an empty status with Pendiente and an empty priority with media.
func (r *SQLiteIncidentRepo) Create(ctx context.Context, inc *domain.Incident) error {
	now := nowUTC()
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = now
	}
	if inc.UpdatedAt.IsZero() {
		inc.UpdatedAt = inc.CreatedAt
	}
	if inc.Status == "" {
		inc.Status = domain.StatusPending
	}
	if inc.Priority == "" {
		inc.Priority = domain.PriorityMedium
	}

	query := `INSERT INTO incidents (estado, prioridad, responsable_id, area, modulo, descripcion, url_foto, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		string(inc.Status),
		string(inc.Priority),
		nullableIDToValue(inc.AssigneeID),
		inc.Area,
		inc.Module,
		inc.Description,
		inc.PhotoURL,
		formatTime(inc.CreatedAt),
		formatTime(inc.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting incident: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading incident id: %w", err)
	}
	inc.ID = id
	return nil
}

func (r *SQLiteIncidentRepo) GetByID(ctx context.Context, id int64) (*domain.Incident, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = ?`, id)
	inc, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("incident %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return inc, nil
}

// List returns every incident, newest first.
func (r *SQLiteIncidentRepo) List(ctx context.Context) ([]*domain.Incident, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+incidentColumns+` FROM incidents ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (r *SQLiteIncidentRepo) ListByAssignee(ctx context.Context, userID int64) ([]*domain.Incident, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+incidentColumns+` FROM incidents WHERE responsable_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing incidents by assignee: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// UpdateStatus writes the status and bumps updated_at. Writing the status an
// incident already has is not an error.
func (r *SQLiteIncidentRepo) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE incidents SET estado = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("updating incident status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating incident status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("incident %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanIncident(row rowScanner) (*domain.Incident, error) {
	var (
		inc                  domain.Incident
		status, priority     string
		assignee             sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&inc.ID, &status, &priority, &assignee, &inc.Area, &inc.Module,
		&inc.Description, &inc.PhotoURL, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning incident: %w", err)
	}
	inc.Status = domain.Status(status)
	inc.Priority = domain.Priority(priority)
	inc.AssigneeID = nullableID(assignee)
	if inc.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if inc.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &inc, nil
}

func scanIncidents(rows *sql.Rows) ([]*domain.Incident, error) {
	var out []*domain.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating incidents: %w", err)
	}
	return out, nil
}
