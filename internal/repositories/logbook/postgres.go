package logbook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krsbot-dev/krsbot/internal/dbx"
	"github.com/krsbot-dev/krsbot/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, entry *models.EnrollmentLogEntry) (*models.EnrollmentLogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO enrollment_logs (id, account_id, action, course_id, course_name, status, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Action, entry.CourseID,
		entry.CourseName, entry.Status, entry.Message, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.EnrollmentLogEntry, error) {
	query :=
		`SELECT id, account_id, action, course_id, course_name, status, message, created_at
		 FROM enrollment_logs`

	var conds []string
	var args []any
	if f.AccountID != "" {
		args = append(args, f.AccountID)
		conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.EnrollmentLogEntry
	for rows.Next() {
		entry := &models.EnrollmentLogEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.AccountID, &entry.Action, &entry.CourseID,
			&entry.CourseName, &entry.Status, &entry.Message, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, accountID string) (*models.EnrollmentStats, error) {
	query :=
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN action = 'add' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN action = 'drop' THEN 1 ELSE 0 END), 0)
		 FROM enrollment_logs
		 WHERE account_id = $1
		 `

	stats := &models.EnrollmentStats{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&stats.Total, &stats.Success, &stats.Failed, &stats.AddActions, &stats.DropActions)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stats, nil
}
