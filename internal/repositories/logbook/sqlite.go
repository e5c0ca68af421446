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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, entry *models.EnrollmentLogEntry) (*models.EnrollmentLogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO enrollment_logs (id, account_id, action, course_id, course_name, status, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 `

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Action, entry.CourseID,
		entry.CourseName, entry.Status, entry.Message, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]*models.EnrollmentLogEntry, error) {
	query :=
		`SELECT id, account_id, action, course_id, course_name, status, message, created_at
		 FROM enrollment_logs`

	var conds []string
	var args []any
	if f.AccountID != "" {
		conds = append(conds, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
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

func (r *SQLiteRepository) Stats(ctx context.Context, accountID string) (*models.EnrollmentStats, error) {
	query :=
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN action = 'add' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN action = 'drop' THEN 1 ELSE 0 END), 0)
		 FROM enrollment_logs
		 WHERE account_id = ?
		 `

	stats := &models.EnrollmentStats{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&stats.Total, &stats.Success, &stats.Failed, &stats.AddActions, &stats.DropActions)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stats, nil
}
